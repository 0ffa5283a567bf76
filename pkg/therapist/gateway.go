package therapist

import (
	"context"
	"strings"
	"time"

	"ai-therapy-be/internal/constant"
	"ai-therapy-be/internal/entity"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/pkg/llm"
)

// TurnResult is everything a single conversational turn produces.
// Fallback marks turns where the reply could not be generated and the
// canned response was substituted.
type TurnResult struct {
	Reply    string
	Analysis *entity.Analysis
	Fallback bool
}

// Engine produces the assistant side of a chat turn. Implementations
// must not return errors for model failures; degraded output takes the
// place of an error so the chat path always completes.
type Engine interface {
	Respond(ctx context.Context, message string, history []*entity.ChatMessage) *TurnResult
}

type Gateway struct {
	provider llm.LLMProvider
	logger   logger.ILogger
	timeout  time.Duration
}

func NewGateway(provider llm.LLMProvider, log logger.ILogger) *Gateway {
	return &Gateway{
		provider: provider,
		logger:   log,
		timeout:  30 * time.Second,
	}
}

func (g *Gateway) Respond(ctx context.Context, message string, history []*entity.ChatMessage) *TurnResult {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	chatHistory := g.buildHistory(message, history)

	reply, err := g.provider.Chat(ctx, chatHistory, llm.WithTemperature(0.7))
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			g.logger.Warn("therapist", "reply generation failed, using fallback", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return &TurnResult{
			Reply:    constant.FallbackReplyV1,
			Analysis: NeutralAnalysis(),
			Fallback: true,
		}
	}

	return &TurnResult{
		Reply:    reply,
		Analysis: g.analyze(ctx, chatHistory),
	}
}

func (g *Gateway) buildHistory(message string, history []*entity.ChatMessage) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    "system",
		Content: constant.TherapistSystemPromptV1,
	})
	for _, msg := range history {
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	messages = append(messages, llm.Message{
		Role:    entity.ChatMessageRoleUser,
		Content: message,
	})
	return messages
}

func (g *Gateway) analyze(ctx context.Context, chatHistory []llm.Message) *entity.Analysis {
	analysisHistory := make([]llm.Message, 0, len(chatHistory)+1)
	analysisHistory = append(analysisHistory, chatHistory...)
	analysisHistory = append(analysisHistory, llm.Message{
		Role:    entity.ChatMessageRoleUser,
		Content: constant.TherapistAnalysisPromptV1,
	})

	raw, err := g.provider.Chat(ctx, analysisHistory, llm.WithTemperature(0.2))
	if err != nil {
		g.logger.Warn("therapist", "analysis generation failed, using neutral default", map[string]interface{}{
			"error": err.Error(),
		})
		return NeutralAnalysis()
	}

	return ParseAnalysis(raw)
}
