package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClientConfig struct {
	APIKey string
}

// AnthropicClient adapts the official Messages API SDK to TextGenerator.
type AnthropicClient struct {
	apiKey string
	client anthropic.Client
}

func NewAnthropicClient(config AnthropicClientConfig) *AnthropicClient {
	apiKey := strings.TrimSpace(config.APIKey)
	return &AnthropicClient{
		apiKey: apiKey,
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (c *AnthropicClient) Available() bool {
	return c.apiKey != ""
}

func (c *AnthropicClient) Generate(ctx context.Context, request GenerateRequest) (GenerateResult, error) {
	if !c.Available() {
		return GenerateResult{}, ErrUnavailable
	}
	if strings.TrimSpace(request.Model) == "" {
		return GenerateResult{}, errors.New("model is required")
	}
	if strings.TrimSpace(request.Input) == "" {
		return GenerateResult{}, errors.New("input is required")
	}

	maxTokens := int64(request.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(request.Model),
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: request.Instructions},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Input)),
		},
	}
	if request.Temperature > 0 {
		params.Temperature = anthropic.Float(request.Temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("anthropic api error: %w", err)
	}

	usage := TokenUsage{
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
		TotalTokens:  int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}

	for _, block := range message.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return GenerateResult{
				Text:    block.Text,
				ModelID: request.Model,
				Usage:   usage,
			}, nil
		}
	}
	return GenerateResult{}, errors.New("no text content in anthropic response")
}
