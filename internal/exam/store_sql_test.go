package exam

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mind-engage/ppl-mockexam/internal/db"
	"github.com/mind-engage/ppl-mockexam/internal/sections"
)

func TestSQLStore_AttemptLifecycle(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.OpenMemory(ctx, t.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer dbh.Close()
	s := NewSQLStore(dbh, "sqlite")

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := Attempt{
		ID:          "att-1",
		SectionID:   sections.AirLaw,
		UserID:      "u1",
		Status:      StatusInProgress,
		QuestionIDs: []string{"q1", "q2"},
		StartedAt:   started,
	}
	if err := s.CreateAttempt(ctx, a); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetAttempt(ctx, "att-1")
	if err != nil {
		t.Fatal(err)
	}
	if !got.StartedAt.Equal(started) || len(got.QuestionIDs) != 2 || got.Result != nil || len(got.Answers) != 0 {
		t.Errorf("got = %+v", got)
	}

	got.Status = StatusSubmitted
	got.Answers = map[string]string{"q1": "A"}
	got.Score = 50
	got.SubmittedAt = started.Add(time.Minute)
	got.Result = &Result{Correct: 1, Unanswered: 1, Total: 2, Score: 50, Percentage: 50, Band: BandFail,
		Review: []ReviewItem{{Question: Question{ID: "q1"}, Selected: "A", CorrectAnswer: "A", IsCorrect: true}}}
	if err := s.SaveResult(ctx, got); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveResult(ctx, got); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second save err = %v", err)
	}

	done, err := s.GetAttempt(ctx, "att-1")
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != StatusSubmitted || done.Answers["q1"] != "A" || done.Result == nil ||
		len(done.Result.Review) != 1 || !done.SubmittedAt.Equal(started.Add(time.Minute)) {
		t.Errorf("done = %+v", done)
	}

	if _, err := s.GetAttempt(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing err = %v", err)
	}
	if err := s.SaveResult(ctx, Attempt{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("save missing err = %v", err)
	}
}
