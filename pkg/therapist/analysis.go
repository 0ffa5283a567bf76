package therapist

import (
	"bytes"
	"encoding/json"

	"ai-therapy-be/internal/entity"
)

// NeutralAnalysis is the default returned whenever the model output
// cannot be parsed or the analysis call fails outright.
func NeutralAnalysis() *entity.Analysis {
	return &entity.Analysis{
		EmotionalState:      "neutral",
		Themes:              []string{"general"},
		RiskLevel:           0,
		RecommendedApproach: "supportive",
		ProgressIndicators:  []string{"engagement"},
	}
}

// ParseAnalysis decodes a model analysis reply. Models frequently wrap
// JSON in markdown fences, so those are stripped before decoding. Parse
// failures fall back to the neutral default, missing fields are filled
// in, and the risk level is clamped into 0..10.
func ParseAnalysis(raw string) *entity.Analysis {
	cleaned := bytes.TrimSpace([]byte(raw))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```json"))
	cleaned = bytes.TrimPrefix(cleaned, []byte("```"))
	cleaned = bytes.TrimSuffix(cleaned, []byte("```"))
	cleaned = bytes.TrimSpace(cleaned)

	var analysis entity.Analysis
	if err := json.Unmarshal(cleaned, &analysis); err != nil {
		return NeutralAnalysis()
	}

	if analysis.EmotionalState == "" {
		analysis.EmotionalState = "neutral"
	}
	if len(analysis.Themes) == 0 {
		analysis.Themes = []string{"general"}
	}
	if analysis.RiskLevel < 0 {
		analysis.RiskLevel = 0
	}
	if analysis.RiskLevel > 10 {
		analysis.RiskLevel = 10
	}
	if analysis.RecommendedApproach == "" {
		analysis.RecommendedApproach = "supportive"
	}
	if len(analysis.ProgressIndicators) == 0 {
		analysis.ProgressIndicators = []string{"engagement"}
	}

	return &analysis
}
