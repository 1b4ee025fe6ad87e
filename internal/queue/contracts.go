package queue

import (
	"context"

	"github.com/rentora/maintenance-back/internal/domain"
)

// Producer sends triage jobs to a queue backend.
type Producer interface {
	Enqueue(ctx context.Context, message domain.TriageMessage) error
}

// Consumer receives triage jobs and executes handlers.
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, domain.TriageMessage) error) error
}
