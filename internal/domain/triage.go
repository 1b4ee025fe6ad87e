package domain

import "time"

// Classification is the structured reading of a free-text complaint.
// It is a pure value: produced fresh per request, never cached, discarded
// after the orchestration run.
type Classification struct {
	Category       string   `json:"category"`
	RequiredSkills []string `json:"required_skills"`
	Urgency        int      `json:"urgency"`
}

// AssignmentDecision is the ranker's sole output, consumed immediately by
// the committer and the dispatcher.
type AssignmentDecision struct {
	ContractorID string `json:"selected_contractor_id"`
	Reasoning    string `json:"reasoning"`
}

type FailReason string

const (
	FailValidation            FailReason = "validation"
	FailNoContractorAvailable FailReason = "no_contractor_available"
	FailClassification        FailReason = "classification_failed"
	FailSelection             FailReason = "selection_failed"
	FailCommit                FailReason = "commit_failed"
)

// AssignmentResult is the tagged union returned by RunAutoAssignment.
// When OK is true the failure fields are zero, and vice versa.
type AssignmentResult struct {
	OK             bool            `json:"ok"`
	ContractorID   string          `json:"contractor_id,omitempty"`
	Reasoning      string          `json:"reasoning,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
	WorkOrderID    string          `json:"work_order_id,omitempty"`
	Reason         FailReason      `json:"reason,omitempty"`
	Detail         string          `json:"detail,omitempty"`
}

func SuccessResult(decision AssignmentDecision, classification Classification, workOrderID string) AssignmentResult {
	copied := classification
	return AssignmentResult{
		OK:             true,
		ContractorID:   decision.ContractorID,
		Reasoning:      decision.Reasoning,
		Classification: &copied,
		WorkOrderID:    workOrderID,
	}
}

func FailureResult(reason FailReason, detail string) AssignmentResult {
	return AssignmentResult{OK: false, Reason: reason, Detail: detail}
}

// TriageMessage is the transport format sent to queue backends; one message
// triggers one orchestration run.
type TriageMessage struct {
	MaintenanceRequestID string    `json:"maintenance_request_id"`
	OrgID                string    `json:"org_id"`
	Attempt              int       `json:"attempt"`
	RequestedAt          time.Time `json:"requested_at"`
}
