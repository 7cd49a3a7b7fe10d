package exam

import (
	"context"
	"sync"
)

// Store persists attempts.
type Store interface {
	CreateAttempt(ctx context.Context, a Attempt) error
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	// SaveResult moves an in-progress attempt to submitted. It returns
	// ErrAlreadySubmitted when the attempt was submitted concurrently.
	SaveResult(ctx context.Context, a Attempt) error
}

type memoryStore struct {
	mu       sync.RWMutex
	attempts map[string]Attempt
}

func NewInMemoryStore() Store {
	return &memoryStore{attempts: map[string]Attempt{}}
}

func (m *memoryStore) CreateAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[a.ID] = copyAttempt(a)
	return nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrNotFound
	}
	return copyAttempt(a), nil
}

func (m *memoryStore) SaveResult(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.attempts[a.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Status == StatusSubmitted {
		return ErrAlreadySubmitted
	}
	m.attempts[a.ID] = copyAttempt(a)
	return nil
}

func copyAttempt(a Attempt) Attempt {
	a.QuestionIDs = append([]string(nil), a.QuestionIDs...)
	answers := make(map[string]string, len(a.Answers))
	for k, v := range a.Answers {
		answers[k] = v
	}
	a.Answers = answers
	if a.Result != nil {
		r := *a.Result
		r.Review = append([]ReviewItem(nil), r.Review...)
		a.Result = &r
	}
	return a
}
