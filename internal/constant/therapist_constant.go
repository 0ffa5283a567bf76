package constant

// TherapistSystemPromptV1 frames every generation request. Changing the
// numbered rules changes clinical tone; version bump when editing.
const TherapistSystemPromptV1 = `You are an AI therapist assistant. Your role is to:
1. Provide empathetic and supportive responses
2. Use evidence-based therapeutic techniques
3. Maintain professional boundaries
4. Monitor for risk factors
5. Guide users toward their therapeutic goals`

// FallbackReplyV1 is returned whenever generation fails or produces an
// empty reply. The chat path must never surface an LLM failure to the user.
const FallbackReplyV1 = "I understand you're reaching out, and I'm here to listen and support you. " +
	"Sometimes I have technical difficulties, but your feelings and experiences are always valid and important. " +
	"Could you tell me more about what's on your mind right now?"

// TherapistAnalysisPromptV1 asks the model to score the latest user
// message. The reply must be bare JSON matching the analysis schema.
const TherapistAnalysisPromptV1 = `Analyze the user's latest message in the context of the conversation.
Respond with ONLY this JSON format, no other text:
{"emotionalState": "<one word>", "themes": ["<theme>"], "riskLevel": <0-10>, "recommendedApproach": "<approach>", "progressIndicators": ["<indicator>"]}`

// Event subjects published to the bus.
const (
	EventSessionCreated    = "therapy/session.created"
	EventSessionMessage    = "therapy/session.message"
	EventActivityCompleted = "activity/completed"
	EventMoodUpdated       = "mood/updated"
)

// HighRiskThreshold is the analysis risk level (0..10) at or above
// which a session message triggers a check-in alert.
const HighRiskThreshold = 7
