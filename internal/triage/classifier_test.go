package triage

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rentora/maintenance-back/internal/ai"
)

// stubGenerator returns canned model output and counts calls.
type stubGenerator struct {
	text  string
	err   error
	calls int32
}

func (s *stubGenerator) Generate(_ context.Context, _ ai.GenerateRequest) (ai.GenerateResult, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return ai.GenerateResult{}, s.err
	}
	return ai.GenerateResult{Text: s.text, ModelID: "stub"}, nil
}

func (s *stubGenerator) Available() bool {
	return true
}

func (s *stubGenerator) callCount() int {
	return int(atomic.LoadInt32(&s.calls))
}

func newTestClassifier(generator ai.TextGenerator) *LLMClassifier {
	return NewLLMClassifier(generator, ai.NewModelRouter(ai.ModelRouterConfig{}), nil)
}

func TestClassifyEmptyDescriptionFailsFast(t *testing.T) {
	generator := &stubGenerator{text: `{"category":"plumbing","required_skills":[],"urgency":3}`}
	classifier := newTestClassifier(generator)

	_, err := classifier.Classify(context.Background(), "   \n\t ")
	if !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}
	if generator.callCount() != 0 {
		t.Fatalf("expected no external call for empty description, got %d", generator.callCount())
	}
}

func TestClassifyParsesWellFormedOutput(t *testing.T) {
	generator := &stubGenerator{text: "```json\n{\"category\":\"Plumbing\",\"required_skills\":[\"Plumbing\",\" pipe fitting \"],\"urgency\":4}\n```"}
	classifier := newTestClassifier(generator)

	classification, err := classifier.Classify(context.Background(), "water leaking under kitchen sink")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if classification.Category != "plumbing" {
		t.Fatalf("expected normalized category, got %q", classification.Category)
	}
	if len(classification.RequiredSkills) != 2 || classification.RequiredSkills[1] != "pipe fitting" {
		t.Fatalf("expected normalized skills, got %v", classification.RequiredSkills)
	}
	if classification.Urgency != 4 {
		t.Fatalf("expected urgency 4, got %d", classification.Urgency)
	}
}

func TestClassifyClampsUrgencyIntoRange(t *testing.T) {
	scenarios := map[string]int{
		`{"category":"plumbing","required_skills":[],"urgency":9}`:  5,
		`{"category":"plumbing","required_skills":[],"urgency":0}`:  1,
		`{"category":"plumbing","required_skills":[],"urgency":-3}`: 1,
		`{"category":"plumbing","required_skills":[],"urgency":3}`:  3,
	}
	for payload, want := range scenarios {
		classifier := newTestClassifier(&stubGenerator{text: payload})
		classification, err := classifier.Classify(context.Background(), "leaking pipe")
		if err != nil {
			t.Fatalf("classify failed for %s: %v", payload, err)
		}
		if classification.Urgency != want {
			t.Fatalf("payload %s: expected urgency %d, got %d", payload, want, classification.Urgency)
		}
	}
}

func TestClassifyMalformedOutputIsClassificationError(t *testing.T) {
	for _, text := range []string{
		"the model apologizes and refuses",
		`{"category":"","required_skills":[],"urgency":3}`,
		`{"category":"plumbing","required_skills":[]}`,
	} {
		classifier := newTestClassifier(&stubGenerator{text: text})
		_, err := classifier.Classify(context.Background(), "leaking pipe")

		var classificationErr *ClassificationError
		if !errors.As(err, &classificationErr) {
			t.Fatalf("output %q: expected *ClassificationError, got %v", text, err)
		}
	}
}

func TestClassifyTransportErrorIsNotClassificationError(t *testing.T) {
	classifier := newTestClassifier(&stubGenerator{err: errors.New("connection reset")})
	_, err := classifier.Classify(context.Background(), "leaking pipe")
	if err == nil {
		t.Fatalf("expected error")
	}
	var classificationErr *ClassificationError
	if errors.As(err, &classificationErr) {
		t.Fatalf("transport failure must stay distinct from malformed output, got %v", err)
	}
}

func TestRuleClassifierIsDeterministic(t *testing.T) {
	classifier := NewRuleClassifier()

	first, err := classifier.Classify(context.Background(), "There is a water leak in the bathroom, urgent!")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	second, _ := classifier.Classify(context.Background(), "There is a water leak in the bathroom, urgent!")
	if first.Category != second.Category || first.Urgency != second.Urgency {
		t.Fatalf("expected stable output, got %+v vs %+v", first, second)
	}
	if first.Category != "plumbing" {
		t.Fatalf("expected plumbing, got %q", first.Category)
	}
	if first.Urgency != 5 {
		t.Fatalf("expected urgency bump for urgent marker, got %d", first.Urgency)
	}
}

func TestRuleClassifierUnknownComplaintsFallBackToGeneral(t *testing.T) {
	classification, err := NewRuleClassifier().Classify(context.Background(), "picture frame fell off the wall")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if classification.Category != "general" {
		t.Fatalf("expected general category, got %q", classification.Category)
	}
	if classification.Urgency < 1 || classification.Urgency > 5 {
		t.Fatalf("urgency out of range: %d", classification.Urgency)
	}
}
