package triage

import (
	"errors"
	"fmt"
)

// ErrEmptyDescription rejects blank complaints before any external call.
var ErrEmptyDescription = errors.New("maintenance request description is empty")

// ClassificationError marks malformed classifier output, as opposed to a
// transport failure. It is terminal for the run and never retried.
type ClassificationError struct {
	Detail string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification output invalid: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("classification output invalid: %s", e.Detail)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// SelectionIntegrityError marks a ranking decision naming a contractor that
// was not in the candidate pool. Terminal, never retried.
type SelectionIntegrityError struct {
	ContractorID string
}

func (e *SelectionIntegrityError) Error() string {
	return fmt.Sprintf("ranking selected contractor %q outside the candidate pool", e.ContractorID)
}

// CommitInconsistencyError reports a work order that was created while the
// request status update failed: persisted state now needs reconciliation.
type CommitInconsistencyError struct {
	RequestID   string
	WorkOrderID string
	Err         error
}

func (e *CommitInconsistencyError) Error() string {
	return fmt.Sprintf(
		"work order %s created but request %s was not moved to IN_PROGRESS: %v",
		e.WorkOrderID, e.RequestID, e.Err,
	)
}

func (e *CommitInconsistencyError) Unwrap() error {
	return e.Err
}
