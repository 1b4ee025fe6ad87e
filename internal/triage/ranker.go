package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/rentora/maintenance-back/internal/ai"
	"github.com/rentora/maintenance-back/internal/domain"
)

// Ranker selects the single best contractor from a non-empty candidate pool
// and produces a human-readable justification.
type Ranker interface {
	Select(
		ctx context.Context,
		candidates []domain.Contractor,
		classification domain.Classification,
		openOrders map[string]int,
		jobLocation string,
	) (domain.AssignmentDecision, error)
}

const rankInstructions = `You assign a maintenance job to one contractor.
Judge the candidates holistically, but respect this strict priority order:
1. Required-skill coverage: candidates missing required skills are sharply disfavored.
2. Location proximity to the job (compare the location strings).
3. Current workload: fewer open orders preferred, and workload matters more the higher the urgency.
4. Rating: weight it more heavily for urgency 4-5 jobs.
5. Hourly rate: tie-breaker only, cheaper preferred when all else is comparable.
Respond with JSON only (no markdown):
{"selected_contractor_id": "...", "reasoning": "one short paragraph explaining the choice against the criteria"}`

// LLMRanker delegates the holistic judgment to a hosted reasoning service
// and verifies the returned choice against the candidate pool.
type LLMRanker struct {
	generator ai.TextGenerator
	router    *ai.ModelRouter
	logger    *log.Logger
}

func NewLLMRanker(generator ai.TextGenerator, router *ai.ModelRouter, logger *log.Logger) *LLMRanker {
	return &LLMRanker{generator: generator, router: router, logger: logger}
}

type rankCandidate struct {
	ID         string   `json:"id"`
	Skills     []string `json:"skills"`
	Location   string   `json:"location"`
	OpenOrders int      `json:"open_orders"`
	Rating     float64  `json:"rating"`
	HourlyRate *float64 `json:"hourly_rate"`
}

func (r *LLMRanker) Select(
	ctx context.Context,
	candidates []domain.Contractor,
	classification domain.Classification,
	openOrders map[string]int,
	jobLocation string,
) (domain.AssignmentDecision, error) {
	payload := map[string]any{
		"job": map[string]any{
			"category":        classification.Category,
			"required_skills": classification.RequiredSkills,
			"urgency":         classification.Urgency,
			"location":        jobLocation,
		},
		"candidates": buildRankCandidates(candidates, openOrders),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return domain.AssignmentDecision{}, fmt.Errorf("marshal ranking payload: %w", err)
	}

	profile := r.router.Select(ai.TaskRank)
	text, err := generateWithFallback(ctx, r.generator, profile, rankInstructions, string(encoded))
	if err != nil {
		return domain.AssignmentDecision{}, fmt.Errorf("ranking service: %w", err)
	}

	raw, err := extractJSON(text)
	if err != nil {
		return domain.AssignmentDecision{}, fmt.Errorf("ranking output: %w", err)
	}
	var decision domain.AssignmentDecision
	if err := json.Unmarshal(raw, &decision); err != nil {
		return domain.AssignmentDecision{}, fmt.Errorf("decode ranking output: %w", err)
	}
	decision.ContractorID = strings.TrimSpace(decision.ContractorID)
	decision.Reasoning = strings.TrimSpace(decision.Reasoning)

	if !candidateSetContains(candidates, decision.ContractorID) {
		if r.logger != nil {
			r.logger.Printf("ranking named unknown contractor id=%q", decision.ContractorID)
		}
		return domain.AssignmentDecision{}, &SelectionIntegrityError{ContractorID: decision.ContractorID}
	}
	if decision.Reasoning == "" {
		decision.Reasoning = "Selected by the ranking service; no reasoning was returned."
	}
	return decision, nil
}

func buildRankCandidates(candidates []domain.Contractor, openOrders map[string]int) []rankCandidate {
	out := make([]rankCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, rankCandidate{
			ID:         candidate.ID,
			Skills:     candidate.Skills,
			Location:   candidate.Location,
			OpenOrders: openOrders[candidate.ID],
			Rating:     candidate.Rating,
			HourlyRate: candidate.HourlyRate,
		})
	}
	return out
}

func candidateSetContains(candidates []domain.Contractor, contractorID string) bool {
	for _, candidate := range candidates {
		if candidate.ID == contractorID {
			return true
		}
	}
	return false
}

// RuleRanker scores the same priority order deterministically. It is the
// substitute strategy for tests and offline deployments, and by construction
// can neither hallucinate a contractor nor emit malformed output.
type RuleRanker struct{}

func NewRuleRanker() *RuleRanker {
	return &RuleRanker{}
}

func (r *RuleRanker) Select(
	_ context.Context,
	candidates []domain.Contractor,
	classification domain.Classification,
	openOrders map[string]int,
	jobLocation string,
) (domain.AssignmentDecision, error) {
	if len(candidates) == 0 {
		return domain.AssignmentDecision{}, fmt.Errorf("candidate pool is empty")
	}

	type scored struct {
		contractor domain.Contractor
		score      float64
		coverage   float64
		nearby     bool
	}

	ranked := make([]scored, 0, len(candidates))
	for _, candidate := range candidates {
		coverage := skillCoverage(candidate.Skills, classification.RequiredSkills)
		nearby := sameLocality(candidate.Location, jobLocation)

		// Skill coverage dominates; a candidate missing required skills
		// starts far behind a full match.
		score := coverage * 100
		if nearby {
			score += 25
		}
		score -= float64(openOrders[candidate.ID]) * float64(2+classification.Urgency)
		ratingWeight := 3.0
		if classification.Urgency >= 4 {
			ratingWeight = 6.0
		}
		score += candidate.Rating * ratingWeight
		if candidate.HourlyRate != nil {
			// Tie-breaker: nudge toward the cheaper contractor.
			score -= *candidate.HourlyRate * 0.01
		}

		ranked = append(ranked, scored{contractor: candidate, score: score, coverage: coverage, nearby: nearby})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	best := ranked[0]

	return domain.AssignmentDecision{
		ContractorID: best.contractor.ID,
		Reasoning:    ruleReasoning(best.contractor, classification, best.coverage, best.nearby, openOrders[best.contractor.ID]),
	}, nil
}

func skillCoverage(have, required []string) float64 {
	if len(required) == 0 {
		return 1
	}
	haveSet := make(map[string]struct{}, len(have))
	for _, skill := range have {
		haveSet[strings.ToLower(strings.TrimSpace(skill))] = struct{}{}
	}
	matched := 0
	for _, skill := range required {
		if _, ok := haveSet[strings.ToLower(strings.TrimSpace(skill))]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// sameLocality is a string-level locality compare; geocoded distance is out
// of scope.
func sameLocality(a, b string) bool {
	left := strings.ToLower(strings.TrimSpace(a))
	right := strings.ToLower(strings.TrimSpace(b))
	if left == "" || right == "" {
		return false
	}
	return left == right || strings.Contains(left, right) || strings.Contains(right, left)
}

func ruleReasoning(
	contractor domain.Contractor,
	classification domain.Classification,
	coverage float64,
	nearby bool,
	openOrderCount int,
) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Selected %s for this %s job (urgency %d/5).", contractor.FullName, classification.Category, classification.Urgency)
	if coverage >= 1 {
		builder.WriteString(" Covers all required skills.")
	} else {
		fmt.Fprintf(&builder, " Covers %.0f%% of required skills, the best match in the pool.", coverage*100)
	}
	if nearby {
		builder.WriteString(" Located near the job.")
	}
	fmt.Fprintf(&builder, " Current open orders: %d.", openOrderCount)
	if contractor.Rating > 0 {
		fmt.Fprintf(&builder, " Rating %.1f.", contractor.Rating)
	}
	if contractor.HourlyRate != nil {
		fmt.Fprintf(&builder, " Hourly rate %.2f.", *contractor.HourlyRate)
	}
	return builder.String()
}
