package memory

import (
	"context"
	"sync"

	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

const defaultCapacity = 10000

// IntentStore keeps payment intent metadata in process memory. It is
// bounded: once full, the oldest intent is evicted on insert. Contents are
// lost on restart; the Postgres-backed store is the durable option.
type IntentStore struct {
	mu       sync.Mutex
	capacity int
	intents  map[string]domain.PaymentIntent
	order    []string
}

func NewIntentStore() *IntentStore {
	return NewIntentStoreWithCapacity(defaultCapacity)
}

func NewIntentStoreWithCapacity(capacity int) *IntentStore {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &IntentStore{
		capacity: capacity,
		intents:  make(map[string]domain.PaymentIntent),
	}
}

func (s *IntentStore) SaveIntent(_ context.Context, intent domain.PaymentIntent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.intents[intent.PaymentID]; exists {
		return nil
	}
	for len(s.intents) >= s.capacity && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.intents, oldest)
	}
	s.intents[intent.PaymentID] = intent
	s.order = append(s.order, intent.PaymentID)
	return nil
}

func (s *IntentStore) GetIntent(_ context.Context, paymentID string) (domain.PaymentIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[paymentID]
	if !ok {
		return domain.PaymentIntent{}, domain.ErrIntentNotFound
	}
	return intent, nil
}

func (s *IntentStore) MarkExecuted(_ context.Context, paymentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	intent, ok := s.intents[paymentID]
	if !ok {
		return domain.ErrIntentNotFound
	}
	intent.Executed = true
	s.intents[paymentID] = intent
	return nil
}
