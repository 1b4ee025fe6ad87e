package notify

import (
	"context"
	"sync"
)

// Delivery is one outbound SMS.
type Delivery struct {
	To   string
	Body string
}

// Sender delivers a message to a recipient through the messaging provider.
type Sender interface {
	Send(ctx context.Context, delivery Delivery) error
}

// MemorySender records deliveries for local development and tests.
type MemorySender struct {
	mu         sync.Mutex
	deliveries []Delivery
	failWith   error
}

func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

// FailWith makes every subsequent Send return err.
func (s *MemorySender) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

func (s *MemorySender) Send(_ context.Context, delivery Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.deliveries = append(s.deliveries, delivery)
	return nil
}

func (s *MemorySender) Deliveries() []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Delivery, len(s.deliveries))
	copy(out, s.deliveries)
	return out
}
