package bank

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/ppl-mockexam/internal/sections"
)

// Store persists sections and questions. Inputs reaching a Store are already
// validated and normalized by Service.
type Store interface {
	EnsureSections(ctx context.Context) error
	ListSections(ctx context.Context) ([]Section, error)
	ListQuestions(ctx context.Context, opts ListOpts) ([]Question, int, error)
	GetQuestion(ctx context.Context, id string) (Question, error)
	CreateQuestion(ctx context.Context, in QuestionInput) (Question, error)
	UpdateQuestion(ctx context.Context, id string, p QuestionPatch) (Question, error)
	DeleteQuestion(ctx context.Context, id string) error
	RandomQuestions(ctx context.Context, sectionID string, n int) ([]Question, error)
}

type memoryStore struct {
	mu        sync.RWMutex
	sections  map[string]Section
	questions map[string]Question
	order     map[string]int64 // insertion sequence, breaks CreatedAt ties
	seq       int64
	now       func() time.Time
}

func NewInMemoryStore() Store {
	return &memoryStore{
		sections:  map[string]Section{},
		questions: map[string]Question{},
		order:     map[string]int64{},
		now:       time.Now,
	}
}

func (m *memoryStore) EnsureSections(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range sections.All() {
		m.sections[s.ID] = Section{SectionID: s.ID, Name: s.Name, Description: s.Description, Icon: s.Icon}
	}
	return nil
}

func (m *memoryStore) ListSections(ctx context.Context) ([]Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := map[string]int{}
	for _, q := range m.questions {
		counts[q.SectionID]++
	}
	out := make([]Section, 0, len(m.sections))
	for _, s := range m.sections {
		s.QuestionCount = counts[s.SectionID]
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SectionID < out[j].SectionID })
	return out, nil
}

func (m *memoryStore) ListQuestions(ctx context.Context, opts ListOpts) ([]Question, int, error) {
	opts = opts.normalized()
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]Question, 0, len(m.questions))
	for _, q := range m.questions {
		if opts.SectionID == "" || q.SectionID == opts.SectionID {
			all = append(all, q)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return m.order[all[i].ID] > m.order[all[j].ID]
	})
	total := len(all)
	if opts.Offset >= total {
		return []Question{}, total, nil
	}
	end := opts.Offset + opts.Limit
	if end > total {
		end = total
	}
	return all[opts.Offset:end], total, nil
}

func (m *memoryStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (m *memoryStore) CreateQuestion(ctx context.Context, in QuestionInput) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sec, ok := m.sections[in.SectionID]
	if !ok {
		return Question{}, ErrSectionNotFound
	}
	now := m.now().UTC()
	q := Question{
		ID:            uuid.NewString(),
		SectionID:     in.SectionID,
		SectionName:   sec.Name,
		QuestionText:  in.QuestionText,
		OptionA:       in.OptionA,
		OptionB:       in.OptionB,
		OptionC:       in.OptionC,
		OptionD:       in.OptionD,
		CorrectAnswer: in.CorrectAnswer,
		Explanation:   in.Explanation,
		Difficulty:    in.Difficulty,
		Source:        in.Source,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.seq++
	m.questions[q.ID] = q
	m.order[q.ID] = m.seq
	return q, nil
}

func (m *memoryStore) UpdateQuestion(ctx context.Context, id string, p QuestionPatch) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	p.apply(&q)
	sec, ok := m.sections[q.SectionID]
	if !ok {
		return Question{}, ErrSectionNotFound
	}
	q.SectionName = sec.Name
	q.UpdatedAt = m.now().UTC()
	m.questions[id] = q
	return q, nil
}

func (m *memoryStore) DeleteQuestion(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return ErrNotFound
	}
	delete(m.questions, id)
	delete(m.order, id)
	return nil
}

func (m *memoryStore) RandomQuestions(ctx context.Context, sectionID string, n int) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pool := []Question{}
	for _, q := range m.questions {
		if q.SectionID == sectionID {
			pool = append(pool, q)
		}
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n < len(pool) {
		pool = pool[:n]
	}
	return pool, nil
}
