package exam

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mind-engage/ppl-mockexam/internal/bank"
	"github.com/mind-engage/ppl-mockexam/internal/sections"
)

type fakeRecorder struct {
	mu    sync.Mutex
	types []string
}

func (f *fakeRecorder) Record(_ context.Context, typ, _ string, _ any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, typ)
}

func seedBank(t *testing.T, section string, n int) *bank.Service {
	t.Helper()
	b := bank.NewService(bank.NewInMemoryStore(), nil, nil)
	for i := 0; i < n; i++ {
		_, err := b.Create(context.Background(), bank.QuestionInput{
			SectionID:     section,
			QuestionText:  fmt.Sprintf("Question %d?", i),
			OptionA:       "alpha",
			OptionB:       "bravo",
			OptionC:       "charlie",
			CorrectAnswer: "B",
			Explanation:   "Bravo is right.",
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func newTestService(t *testing.T, n int) (*Service, *bank.Service, *fakeRecorder) {
	b := seedBank(t, sections.Meteorology, n)
	rec := &fakeRecorder{}
	svc := NewService(NewInMemoryStore(), b, 16, rec, nil)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	calls := 0
	svc.now = func() time.Time {
		calls++
		return start.Add(time.Duration(calls-1) * 90 * time.Second)
	}
	return svc, b, rec
}

func TestStart_StripsAnswers(t *testing.T) {
	svc, _, _ := newTestService(t, 20)
	v, err := svc.Start(context.Background(), sections.Meteorology, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Questions) != 16 {
		t.Errorf("questions = %d, want 16", len(v.Questions))
	}
	if v.Status != StatusInProgress || v.SectionName != "Meteorology" || v.Result != nil || v.AttemptID == "" {
		t.Errorf("view = %+v", v)
	}
	seen := map[string]bool{}
	for _, q := range v.Questions {
		if seen[q.ID] {
			t.Errorf("duplicate question %s", q.ID)
		}
		seen[q.ID] = true
	}

	got, err := svc.Get(context.Background(), v.AttemptID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Questions) != 16 || got.Questions[0].ID != v.Questions[0].ID {
		t.Errorf("get returned different questions")
	}
}

func TestStart_Errors(t *testing.T) {
	svc, _, _ := newTestService(t, 3)
	if _, err := svc.Start(context.Background(), sections.Navigation, "u1"); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("empty section err = %v", err)
	}
	if _, err := svc.Start(context.Background(), "astronomy", "u1"); !errors.Is(err, bank.ErrSectionNotFound) {
		t.Errorf("unknown section err = %v", err)
	}
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown attempt err = %v", err)
	}
}

func TestSubmit_Grades(t *testing.T) {
	ctx := context.Background()
	svc, _, rec := newTestService(t, 5)
	v, err := svc.Start(ctx, sections.Meteorology, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Questions) != 5 {
		t.Fatalf("questions = %d", len(v.Questions))
	}

	answers := map[string]string{
		v.Questions[0].ID: "B",
		v.Questions[1].ID: "b",
		v.Questions[2].ID: "B",
		v.Questions[3].ID: "A",
		"not-in-exam":     "B",
	}
	res, err := svc.Submit(ctx, v.AttemptID, answers)
	if err != nil {
		t.Fatal(err)
	}
	r := res.Result
	if r == nil || res.Status != StatusSubmitted {
		t.Fatalf("view = %+v", res)
	}
	if r.Correct != 3 || r.Incorrect != 1 || r.Unanswered != 1 || r.Total != 5 {
		t.Errorf("result = %+v", r)
	}
	if r.Score != 60 || r.Percentage != 60 || r.Band != BandBorderline {
		t.Errorf("score = %d pct = %v band = %s", r.Score, r.Percentage, r.Band)
	}
	if r.ElapsedSeconds != 90 {
		t.Errorf("elapsed = %d", r.ElapsedSeconds)
	}
	if len(r.Review) != 5 || r.Review[3].Selected != "A" || r.Review[3].CorrectAnswer != "B" ||
		r.Review[3].IsCorrect || r.Review[3].Explanation == "" {
		t.Errorf("review = %+v", r.Review)
	}

	again, err := svc.Submit(ctx, v.AttemptID, map[string]string{v.Questions[4].ID: "B"})
	if err != nil {
		t.Fatal(err)
	}
	if again.Result.Correct != 3 || again.Result.Score != 60 {
		t.Errorf("resubmit changed result: %+v", again.Result)
	}
	if len(rec.types) != 1 || rec.types[0] != "ExamSubmitted" {
		t.Errorf("audit = %v", rec.types)
	}

	got, _ := svc.Get(ctx, v.AttemptID)
	if got.Result == nil || len(got.Questions) != 5 {
		t.Errorf("submitted view = %+v", got)
	}
}

func TestSubmit_SkipsDeletedQuestions(t *testing.T) {
	ctx := context.Background()
	svc, b, _ := newTestService(t, 3)
	v, err := svc.Start(ctx, sections.Meteorology, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Delete(ctx, v.Questions[0].ID); err != nil {
		t.Fatal(err)
	}
	res, err := svc.Submit(ctx, v.AttemptID, map[string]string{v.Questions[1].ID: "B", v.Questions[2].ID: "B"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Result.Total != 2 || res.Result.Score != 100 || res.Result.Band != BandPass {
		t.Errorf("result = %+v", res.Result)
	}
}

func TestGrade_RoundsPercentages(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	qs := []bank.Question{
		{ID: "1", CorrectAnswer: "A"}, {ID: "2", CorrectAnswer: "A"}, {ID: "3", CorrectAnswer: "A"},
	}
	r := svc.grade(qs, map[string]string{"1": "A", "2": "A"})
	if r.Score != 67 || r.Percentage != 66.7 || r.Band != BandBorderline {
		t.Errorf("result = %+v", r)
	}
	if r := svc.grade(nil, nil); r.Score != 0 || r.Band != BandFail {
		t.Errorf("empty = %+v", r)
	}
}

func TestBand(t *testing.T) {
	cases := map[int]string{100: BandPass, 80: BandPass, 79: BandBorderline, 60: BandBorderline, 59: BandFail, 0: BandFail}
	for score, want := range cases {
		if got := Band(score); got != want {
			t.Errorf("Band(%d) = %s, want %s", score, got, want)
		}
	}
}
