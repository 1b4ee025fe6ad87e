package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/rentora/maintenance-back/internal/ai"
	"github.com/rentora/maintenance-back/internal/domain"
	"github.com/rentora/maintenance-back/internal/policy"
)

// Classifier turns a raw maintenance description into a structured category,
// required-skill set and urgency. Stateless; no persistence.
type Classifier interface {
	Classify(ctx context.Context, description string) (domain.Classification, error)
}

const classifyInstructions = `You classify property maintenance complaints.
Given one complaint, respond with JSON only (no markdown):
{"category": "plumbing", "required_skills": ["plumbing"], "urgency": 3}
- category: one short lowercase label for the trade involved
- required_skills: skills a contractor needs for this job
- urgency: integer 1 (cosmetic) to 5 (emergency, safety or habitability at risk)`

// LLMClassifier delegates to a hosted text-understanding service.
type LLMClassifier struct {
	generator ai.TextGenerator
	router    *ai.ModelRouter
	logger    *log.Logger
}

func NewLLMClassifier(generator ai.TextGenerator, router *ai.ModelRouter, logger *log.Logger) *LLMClassifier {
	return &LLMClassifier{generator: generator, router: router, logger: logger}
}

func (c *LLMClassifier) Classify(ctx context.Context, description string) (domain.Classification, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return domain.Classification{}, ErrEmptyDescription
	}

	profile := c.router.Select(ai.TaskClassify)
	text, err := generateWithFallback(ctx, c.generator, profile, classifyInstructions, policy.MaskPII(trimmed))
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classification service: %w", err)
	}

	classification, err := parseClassification(text)
	if err != nil {
		if c.logger != nil {
			c.logger.Printf("classifier returned malformed payload: %v", err)
		}
		return domain.Classification{}, err
	}
	return classification, nil
}

func parseClassification(text string) (domain.Classification, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return domain.Classification{}, &ClassificationError{Detail: "not a JSON object", Err: err}
	}

	var payload struct {
		Category       string   `json:"category"`
		RequiredSkills []string `json:"required_skills"`
		Urgency        *int     `json:"urgency"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.Classification{}, &ClassificationError{Detail: "unexpected shape", Err: err}
	}

	category := strings.ToLower(strings.TrimSpace(payload.Category))
	if category == "" {
		return domain.Classification{}, &ClassificationError{Detail: "category is missing"}
	}
	if payload.Urgency == nil {
		return domain.Classification{}, &ClassificationError{Detail: "urgency is missing"}
	}

	skills := make([]string, 0, len(payload.RequiredSkills))
	for _, skill := range payload.RequiredSkills {
		normalized := strings.ToLower(strings.TrimSpace(skill))
		if normalized != "" {
			skills = append(skills, normalized)
		}
	}

	return domain.Classification{
		Category:       category,
		RequiredSkills: skills,
		Urgency:        clampUrgency(*payload.Urgency),
	}, nil
}

func clampUrgency(urgency int) int {
	if urgency < 1 {
		return 1
	}
	if urgency > 5 {
		return 5
	}
	return urgency
}

// generateWithFallback tries the profile's primary model, then its fallback.
func generateWithFallback(
	ctx context.Context,
	generator ai.TextGenerator,
	profile ai.ModelProfile,
	instructions string,
	input string,
) (string, error) {
	if generator == nil || !generator.Available() {
		return "", ai.ErrUnavailable
	}

	primary, err := generator.Generate(ctx, ai.GenerateRequest{
		Model:           profile.PrimaryModel,
		Instructions:    instructions,
		Input:           input,
		Temperature:     profile.Temperature,
		MaxOutputTokens: profile.MaxOutputTokens,
	})
	if err == nil {
		return primary.Text, nil
	}

	if strings.TrimSpace(profile.FallbackModel) == "" || profile.FallbackModel == profile.PrimaryModel {
		return "", err
	}

	fallback, fallbackErr := generator.Generate(ctx, ai.GenerateRequest{
		Model:           profile.FallbackModel,
		Instructions:    instructions,
		Input:           input,
		Temperature:     profile.Temperature,
		MaxOutputTokens: profile.MaxOutputTokens,
	})
	if fallbackErr != nil {
		return "", fmt.Errorf("primary model failed: %v; fallback failed: %w", err, fallbackErr)
	}
	return fallback.Text, nil
}

// RuleClassifier is a deterministic keyword-based substitute used in tests
// and in deployments without access to a hosted model.
type RuleClassifier struct{}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

type categoryRule struct {
	category string
	skills   []string
	urgency  int
	keywords []string
}

var categoryRules = []categoryRule{
	{"gas", []string{"gas fitting"}, 5, []string{"gas", "smell of gas"}},
	{"plumbing", []string{"plumbing"}, 4, []string{"leak", "flood", "pipe", "sink", "toilet", "water"}},
	{"electrical", []string{"electrical"}, 4, []string{"spark", "outlet", "breaker", "wiring", "power"}},
	{"hvac", []string{"hvac"}, 3, []string{"heat", "heater", "furnace", "ac ", "air condition", "thermostat"}},
	{"appliance", []string{"appliance repair"}, 2, []string{"fridge", "refrigerator", "dishwasher", "oven", "washer", "dryer"}},
	{"pest", []string{"pest control"}, 3, []string{"roach", "mice", "mouse", "rat", "bed bug", "termite"}},
	{"locksmith", []string{"locksmith"}, 3, []string{"lock", "key", "door won't"}},
}

var urgentMarkers = []string{"emergency", "urgent", "immediately", "danger", "fire", "burst"}

func (c *RuleClassifier) Classify(_ context.Context, description string) (domain.Classification, error) {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return domain.Classification{}, ErrEmptyDescription
	}

	lowered := strings.ToLower(trimmed)
	result := domain.Classification{
		Category:       "general",
		RequiredSkills: []string{"general maintenance"},
		Urgency:        2,
	}
	for _, rule := range categoryRules {
		if containsAny(lowered, rule.keywords) {
			result = domain.Classification{
				Category:       rule.category,
				RequiredSkills: append([]string(nil), rule.skills...),
				Urgency:        rule.urgency,
			}
			break
		}
	}

	if containsAny(lowered, urgentMarkers) {
		result.Urgency = clampUrgency(result.Urgency + 1)
	}
	return result, nil
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
