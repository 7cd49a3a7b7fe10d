package bank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mind-engage/ppl-mockexam/internal/audit"
	"github.com/mind-engage/ppl-mockexam/internal/logger"
	"github.com/mind-engage/ppl-mockexam/internal/parser"
	"github.com/mind-engage/ppl-mockexam/internal/sections"
)

// Service applies the question bank rules on top of a Store.
type Service struct {
	store Store
	audit audit.Recorder
	log   *logger.Logger

	ensureMu sync.Mutex
	ensured  bool
}

func NewService(store Store, rec audit.Recorder, log *logger.Logger) *Service {
	if rec == nil {
		rec = audit.Discard{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, audit: rec, log: log}
}

// EnsureSections seeds the section catalog once per process.
func (s *Service) EnsureSections(ctx context.Context) error {
	s.ensureMu.Lock()
	defer s.ensureMu.Unlock()
	if s.ensured {
		return nil
	}
	if err := s.store.EnsureSections(ctx); err != nil {
		return fmt.Errorf("ensure sections: %w", err)
	}
	s.ensured = true
	return nil
}

func (s *Service) Sections(ctx context.Context) ([]Section, error) {
	if err := s.EnsureSections(ctx); err != nil {
		return nil, err
	}
	return s.store.ListSections(ctx)
}

func (s *Service) List(ctx context.Context, opts ListOpts) ([]Question, int, ListOpts, error) {
	opts = opts.normalized()
	qs, total, err := s.store.ListQuestions(ctx, opts)
	return qs, total, opts, err
}

func (s *Service) Get(ctx context.Context, id string) (Question, error) {
	return s.store.GetQuestion(ctx, id)
}

// Random returns up to n questions of a section in random order.
func (s *Service) Random(ctx context.Context, sectionID string, n int) ([]Question, error) {
	return s.store.RandomQuestions(ctx, sectionID, n)
}

func (s *Service) Create(ctx context.Context, in QuestionInput) (Question, error) {
	in, err := normalizeInput(in, SourceManual)
	if err != nil {
		return Question{}, err
	}
	q, err := s.insert(ctx, in)
	if err != nil {
		return Question{}, err
	}
	s.audit.Record(ctx, audit.QuestionCreated, q.ID, map[string]string{"sectionId": q.SectionID, "source": q.Source})
	return q, nil
}

func (s *Service) Update(ctx context.Context, id string, p QuestionPatch) (Question, error) {
	p, err := normalizePatch(p)
	if err != nil {
		return Question{}, err
	}
	if err := s.EnsureSections(ctx); err != nil {
		return Question{}, err
	}
	q, err := s.store.UpdateQuestion(ctx, id, p)
	if err != nil {
		return Question{}, err
	}
	s.audit.Record(ctx, audit.QuestionUpdated, q.ID, p)
	return q, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, audit.QuestionDeleted, id, nil)
	return nil
}

// BulkSave stores reviewed rows (typically from AI extraction). Bad rows are
// counted and described but never abort the batch.
func (s *Service) BulkSave(ctx context.Context, rows []QuestionInput, source string) (BulkResult, error) {
	if err := s.EnsureSections(ctx); err != nil {
		return BulkResult{}, err
	}
	if source == "" {
		source = SourceAI
	}
	res := BulkResult{Processed: len(rows), Messages: []string{}}
	for _, row := range rows {
		in, err := normalizeInput(row, source)
		if err != nil {
			res.fail(rowError(err, row.SectionID, row.QuestionText))
			continue
		}
		if _, err := s.insert(ctx, in); err != nil {
			res.fail(rowError(err, row.SectionID, row.QuestionText))
			continue
		}
		res.Saved++
	}
	s.audit.Record(ctx, audit.QuestionsImported, source, res)
	s.log.Info("bulk save", "source", source, "saved", res.Saved, "errors", res.Errors)
	return res, nil
}

// ImportExtracted saves parser output. A question keeps its section tag when
// the tag names a known section; otherwise it is classified from its text.
func (s *Service) ImportExtracted(ctx context.Context, qs []parser.ExtractedQuestion, source string) (BulkResult, error) {
	if err := s.EnsureSections(ctx); err != nil {
		return BulkResult{}, err
	}
	res := BulkResult{Processed: len(qs), Messages: []string{}}
	for _, eq := range qs {
		if len(eq.Options) < 2 {
			res.fail(fmt.Sprintf("Question skipped: Insufficient options - %q", prefix(eq.QuestionText)))
			continue
		}
		sectionID := eq.Section
		if !sections.Valid(sectionID) {
			sectionID = sections.Classify(eq.QuestionText, eq.Options)
		}
		// a missing answer, or one past the parsed options, falls back to A
		answer := strings.ToUpper(eq.CorrectAnswer)
		if !validAnswer(answer) || int(answer[0]-'A') >= len(eq.Options) {
			answer = "A"
		}
		in := QuestionInput{
			SectionID:     sectionID,
			QuestionText:  eq.QuestionText,
			OptionA:       optionAt(eq.Options, 0),
			OptionB:       optionAt(eq.Options, 1),
			OptionC:       optionAt(eq.Options, 2),
			OptionD:       optionAt(eq.Options, 3),
			CorrectAnswer: answer,
			Explanation:   eq.Explanation,
			Difficulty:    DifficultyMedium,
			Source:        source,
		}
		if in.Source == "" {
			in.Source = SourceManual
		}
		if _, err := s.insert(ctx, in); err != nil {
			res.fail(rowError(err, sectionID, eq.QuestionText))
			continue
		}
		res.Saved++
	}
	s.audit.Record(ctx, audit.QuestionsImported, source, res)
	s.log.Info("import extracted", "source", source, "processed", res.Processed, "saved", res.Saved, "errors", res.Errors)
	return res, nil
}

func (s *Service) insert(ctx context.Context, in QuestionInput) (Question, error) {
	if err := s.EnsureSections(ctx); err != nil {
		return Question{}, err
	}
	return s.store.CreateQuestion(ctx, in)
}

func normalizeInput(in QuestionInput, defaultSource string) (QuestionInput, error) {
	in.SectionID = strings.TrimSpace(in.SectionID)
	in.QuestionText = strings.TrimSpace(in.QuestionText)
	in.OptionA = strings.TrimSpace(in.OptionA)
	in.OptionB = strings.TrimSpace(in.OptionB)
	in.OptionC = strings.TrimSpace(in.OptionC)
	in.OptionD = strings.TrimSpace(in.OptionD)
	in.Explanation = strings.TrimSpace(in.Explanation)
	in.CorrectAnswer = strings.ToUpper(strings.TrimSpace(in.CorrectAnswer))

	if in.SectionID == "" || in.QuestionText == "" || in.OptionA == "" || in.OptionB == "" ||
		in.OptionC == "" || in.CorrectAnswer == "" {
		return in, fmt.Errorf("%w: missing required fields", ErrValidation)
	}
	if !validAnswer(in.CorrectAnswer) {
		return in, fmt.Errorf("%w: correct answer must be A, B, C, or D", ErrValidation)
	}
	if in.CorrectAnswer == "D" && in.OptionD == "" {
		return in, fmt.Errorf("%w: correct answer D has no option D", ErrValidation)
	}
	d, err := normalizeDifficulty(in.Difficulty)
	if err != nil {
		return in, err
	}
	in.Difficulty = d
	if !sections.Valid(in.SectionID) {
		return in, fmt.Errorf("%w: %s", ErrSectionNotFound, in.SectionID)
	}
	if in.Source = strings.TrimSpace(in.Source); in.Source == "" {
		in.Source = defaultSource
	}
	return in, nil
}

func normalizePatch(p QuestionPatch) (QuestionPatch, error) {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	p.SectionID = trim(p.SectionID)
	p.QuestionText = trim(p.QuestionText)
	p.OptionA = trim(p.OptionA)
	p.OptionB = trim(p.OptionB)
	p.OptionC = trim(p.OptionC)
	p.OptionD = trim(p.OptionD)
	p.Explanation = trim(p.Explanation)

	// required fields cannot be blanked
	for _, v := range []*string{p.SectionID, p.QuestionText, p.OptionA, p.OptionB, p.OptionC} {
		if v != nil && *v == "" {
			return p, fmt.Errorf("%w: required field set to empty", ErrValidation)
		}
	}
	if p.CorrectAnswer != nil {
		a := strings.ToUpper(strings.TrimSpace(*p.CorrectAnswer))
		if !validAnswer(a) {
			return p, fmt.Errorf("%w: correct answer must be A, B, C, or D", ErrValidation)
		}
		p.CorrectAnswer = &a
	}
	if p.Difficulty != nil {
		d, err := normalizeDifficulty(*p.Difficulty)
		if err != nil {
			return p, err
		}
		p.Difficulty = &d
	}
	if p.SectionID != nil && !sections.Valid(*p.SectionID) {
		return p, fmt.Errorf("%w: %s", ErrSectionNotFound, *p.SectionID)
	}
	return p, nil
}

func normalizeDifficulty(d string) (string, error) {
	switch d = strings.ToLower(strings.TrimSpace(d)); d {
	case "":
		return DifficultyMedium, nil
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("%w: difficulty must be easy, medium, or hard", ErrValidation)
}

func validAnswer(a string) bool {
	return a == "A" || a == "B" || a == "C" || a == "D"
}

func optionAt(opts []string, i int) string {
	if i < len(opts) {
		return opts[i]
	}
	return ""
}

func rowError(err error, sectionID, text string) string {
	switch {
	case errors.Is(err, ErrSectionNotFound):
		return fmt.Sprintf("Section not found: %s", sectionID)
	case errors.Is(err, ErrValidation):
		return fmt.Sprintf("Question skipped: %v - %q", err, prefix(text))
	default:
		return fmt.Sprintf("Error saving question: %v", err)
	}
}

func prefix(s string) string {
	r := []rune(s)
	if len(r) > 50 {
		return string(r[:50]) + "..."
	}
	return s
}
