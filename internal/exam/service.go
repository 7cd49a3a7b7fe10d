// Package exam runs mock exams over random questions of one section.
package exam

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/ppl-mockexam/internal/audit"
	"github.com/mind-engage/ppl-mockexam/internal/bank"
	"github.com/mind-engage/ppl-mockexam/internal/grading"
	"github.com/mind-engage/ppl-mockexam/internal/logger"
	"github.com/mind-engage/ppl-mockexam/internal/sections"
)

// QuestionSource is the part of the question bank an exam needs.
type QuestionSource interface {
	Random(ctx context.Context, sectionID string, n int) ([]bank.Question, error)
	Get(ctx context.Context, id string) (bank.Question, error)
}

type Service struct {
	store     Store
	questions QuestionSource
	grader    grading.Strategy
	audit     audit.Recorder
	log       *logger.Logger
	count     int
	now       func() time.Time
}

func NewService(store Store, questions QuestionSource, count int, rec audit.Recorder, log *logger.Logger) *Service {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	if rec == nil {
		rec = audit.Discard{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:     store,
		questions: questions,
		grader:    grading.NewDefaultGrader(),
		audit:     rec,
		log:       log.With("component", "exam"),
		count:     count,
		now:       time.Now,
	}
}

// Start draws up to count random questions of the section and opens an attempt.
func (s *Service) Start(ctx context.Context, sectionID, userID string) (View, error) {
	if !sections.Valid(sectionID) {
		return View{}, fmt.Errorf("%w: %s", bank.ErrSectionNotFound, sectionID)
	}
	qs, err := s.questions.Random(ctx, sectionID, s.count)
	if err != nil {
		return View{}, fmt.Errorf("draw questions: %w", err)
	}
	if len(qs) == 0 {
		return View{}, ErrNoQuestions
	}
	if userID == "" {
		userID = "anonymous"
	}

	a := Attempt{
		ID:          uuid.NewString(),
		SectionID:   sectionID,
		UserID:      userID,
		Status:      StatusInProgress,
		QuestionIDs: make([]string, len(qs)),
		Answers:     map[string]string{},
		StartedAt:   s.now().UTC(),
	}
	for i, q := range qs {
		a.QuestionIDs[i] = q.ID
	}
	if err := s.store.CreateAttempt(ctx, a); err != nil {
		return View{}, fmt.Errorf("create attempt: %w", err)
	}
	s.log.Info("exam started", "attempt", a.ID, "section", sectionID, "questions", len(qs))
	return view(a, safeQuestions(qs)), nil
}

// Get returns the student-safe view of an open attempt, or the stored review
// once it has been submitted.
func (s *Service) Get(ctx context.Context, attemptID string) (View, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return View{}, err
	}
	if a.Status == StatusSubmitted && a.Result != nil {
		return view(a, reviewQuestions(a.Result)), nil
	}
	qs, err := s.load(ctx, a.QuestionIDs)
	if err != nil {
		return View{}, err
	}
	return view(a, safeQuestions(qs)), nil
}

// Submit grades the answers (question id -> letter) and stores the result.
// Submitting an already submitted attempt returns the stored result.
func (s *Service) Submit(ctx context.Context, attemptID string, answers map[string]string) (View, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return View{}, err
	}
	if a.Status == StatusSubmitted {
		return s.Get(ctx, attemptID)
	}

	qs, err := s.load(ctx, a.QuestionIDs)
	if err != nil {
		return View{}, err
	}
	a.SubmittedAt = s.now().UTC()
	res := s.grade(qs, answers)
	res.ElapsedSeconds = int64(a.SubmittedAt.Sub(a.StartedAt) / time.Second)
	if res.ElapsedSeconds < 0 {
		res.ElapsedSeconds = 0
	}

	a.Status = StatusSubmitted
	a.Answers = map[string]string{}
	for _, item := range res.Review {
		if item.Selected != "" {
			a.Answers[item.ID] = item.Selected
		}
	}
	a.Score = float64(res.Score)
	a.Result = &res

	if err := s.store.SaveResult(ctx, a); err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			return s.Get(ctx, attemptID)
		}
		return View{}, fmt.Errorf("save result: %w", err)
	}
	s.audit.Record(ctx, audit.ExamSubmitted, a.ID, map[string]any{
		"sectionId": a.SectionID,
		"userId":    a.UserID,
		"score":     res.Score,
		"band":      res.Band,
	})
	s.log.Info("exam submitted", "attempt", a.ID, "score", res.Score, "band", res.Band)
	return view(a, reviewQuestions(&res)), nil
}

func (s *Service) grade(qs []bank.Question, answers map[string]string) Result {
	results := make([]grading.Result, len(qs))
	review := make([]ReviewItem, len(qs))
	for i, q := range qs {
		r := s.grader.Grade(grading.Q{ID: q.ID, CorrectAnswer: q.CorrectAnswer, Points: 1}, answers[q.ID])
		results[i] = r
		review[i] = ReviewItem{
			Question:      safeQuestion(q),
			Selected:      r.Selected,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     r.Correct,
			Explanation:   q.Explanation,
		}
	}
	sum := grading.Summarize(results)
	res := Result{
		Correct:    sum.Correct,
		Incorrect:  sum.Incorrect,
		Unanswered: sum.Unanswered,
		Total:      sum.Total,
		Review:     review,
	}
	if sum.Total > 0 {
		pct := float64(sum.Correct) * 100 / float64(sum.Total)
		res.Score = int(math.Round(pct))
		res.Percentage = math.Round(pct*10) / 10
	}
	res.Band = Band(res.Score)
	return res
}

// load fetches the attempt's questions in order. Questions deleted from the
// bank since the attempt started are left out.
func (s *Service) load(ctx context.Context, ids []string) ([]bank.Question, error) {
	out := make([]bank.Question, 0, len(ids))
	for _, id := range ids {
		q, err := s.questions.Get(ctx, id)
		if errors.Is(err, bank.ErrNotFound) {
			s.log.Warn("exam question no longer in bank", "question", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func view(a Attempt, qs []Question) View {
	name := a.SectionID
	if sec, ok := sections.Get(a.SectionID); ok {
		name = sec.Name
	}
	return View{
		AttemptID:   a.ID,
		SectionID:   a.SectionID,
		SectionName: name,
		Status:      a.Status,
		StartedAt:   a.StartedAt,
		Questions:   qs,
		Result:      a.Result,
	}
}

func safeQuestion(q bank.Question) Question {
	return Question{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		OptionA:      q.OptionA,
		OptionB:      q.OptionB,
		OptionC:      q.OptionC,
		OptionD:      q.OptionD,
	}
}

func safeQuestions(qs []bank.Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = safeQuestion(q)
	}
	return out
}

func reviewQuestions(r *Result) []Question {
	out := make([]Question, len(r.Review))
	for i, item := range r.Review {
		out[i] = item.Question
	}
	return out
}
