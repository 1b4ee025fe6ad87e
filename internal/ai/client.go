package ai

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when a client has no credentials configured.
var ErrUnavailable = errors.New("text generator unavailable")

type TokenUsage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type GenerateRequest struct {
	Model           string
	Instructions    string
	Input           string
	Temperature     float64
	MaxOutputTokens int
}

type GenerateResult struct {
	Text    string
	ModelID string
	Usage   TokenUsage
}

// TextGenerator abstracts the hosted reasoning/classification providers so
// deterministic stand-ins can be substituted in tests and offline setups.
type TextGenerator interface {
	Generate(ctx context.Context, request GenerateRequest) (GenerateResult, error)
	Available() bool
}
