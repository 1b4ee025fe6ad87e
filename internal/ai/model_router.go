package ai

import "strings"

type TaskKind string

const (
	TaskClassify TaskKind = "classify"
	TaskRank     TaskKind = "rank"
)

type ModelProfile struct {
	PrimaryModel    string
	FallbackModel   string
	Temperature     float64
	MaxOutputTokens int
}

type ModelRouterConfig struct {
	ClassifyPrimary  string
	ClassifyFallback string

	RankPrimary  string
	RankFallback string
}

// ModelRouter maps triage tasks to model profiles. Classification is short
// structured extraction; ranking needs more room for the reasoning text.
type ModelRouter struct {
	config ModelRouterConfig
}

func NewModelRouter(config ModelRouterConfig) *ModelRouter {
	if strings.TrimSpace(config.ClassifyPrimary) == "" {
		config.ClassifyPrimary = "gpt-4.1-mini"
	}
	if strings.TrimSpace(config.ClassifyFallback) == "" {
		config.ClassifyFallback = "gpt-4.1-nano"
	}
	if strings.TrimSpace(config.RankPrimary) == "" {
		config.RankPrimary = "gpt-4.1"
	}
	if strings.TrimSpace(config.RankFallback) == "" {
		config.RankFallback = "gpt-4.1-mini"
	}
	return &ModelRouter{config: config}
}

func (r *ModelRouter) Select(task TaskKind) ModelProfile {
	switch task {
	case TaskRank:
		return ModelProfile{
			PrimaryModel:    r.config.RankPrimary,
			FallbackModel:   r.config.RankFallback,
			Temperature:     0.2,
			MaxOutputTokens: 900,
		}
	default:
		return ModelProfile{
			PrimaryModel:    r.config.ClassifyPrimary,
			FallbackModel:   r.config.ClassifyFallback,
			Temperature:     0.1,
			MaxOutputTokens: 400,
		}
	}
}
