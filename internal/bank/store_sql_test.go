package bank

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mind-engage/ppl-mockexam/internal/db"
	"github.com/mind-engage/ppl-mockexam/internal/sections"
)

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	dbh, err := db.OpenMemory(context.Background(), t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })

	s := NewSQLStore(dbh, "sqlite")
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	if err := s.EnsureSections(context.Background()); err != nil {
		t.Fatalf("ensure sections: %v", err)
	}
	return s
}

func sqlInput(section, text string) QuestionInput {
	return QuestionInput{
		SectionID: section, QuestionText: text,
		OptionA: "one", OptionB: "two", OptionC: "three",
		CorrectAnswer: "B", Difficulty: DifficultyMedium, Source: SourceManual,
	}
}

func TestSQLStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	q, err := s.CreateQuestion(ctx, sqlInput(sections.Navigation, "Which way is north on a chart?"))
	if err != nil {
		t.Fatal(err)
	}
	if q.SectionName != "Navigation" || q.CorrectAnswer != "B" || q.CreatedAt.IsZero() {
		t.Errorf("created = %+v", q)
	}

	got, err := s.GetQuestion(ctx, q.ID)
	if err != nil || got.QuestionText != q.QuestionText {
		t.Fatalf("get = %+v, %v", got, err)
	}

	d, expl := "four", "North is up."
	u, err := s.UpdateQuestion(ctx, q.ID, QuestionPatch{OptionD: &d, Explanation: &expl})
	if err != nil {
		t.Fatal(err)
	}
	if u.OptionD != "four" || u.Explanation != expl || !u.UpdatedAt.After(u.CreatedAt) {
		t.Errorf("updated = %+v", u)
	}

	bad := "astronomy"
	if _, err := s.UpdateQuestion(ctx, q.ID, QuestionPatch{SectionID: &bad}); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("bad section err = %v", err)
	}

	if err := s.DeleteQuestion(ctx, q.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetQuestion(ctx, q.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted err = %v", err)
	}
	if err := s.DeleteQuestion(ctx, q.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete twice err = %v", err)
	}
}

func TestSQLStore_CreateUnknownSection(t *testing.T) {
	s := newSQLStore(t)
	if _, err := s.CreateQuestion(context.Background(), sqlInput("astronomy", "Which star is brightest?")); !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestSQLStore_ListNewestFirstWithCounts(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)

	var ids []string
	for _, text := range []string{"first question?", "second question?", "third question?"} {
		q, err := s.CreateQuestion(ctx, sqlInput(sections.Meteorology, text))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, q.ID)
	}
	if _, err := s.CreateQuestion(ctx, sqlInput(sections.AirLaw, "law question?")); err != nil {
		t.Fatal(err)
	}

	qs, total, err := s.ListQuestions(ctx, ListOpts{SectionID: sections.Meteorology, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(qs) != 2 {
		t.Fatalf("total = %d len = %d", total, len(qs))
	}
	if qs[0].ID != ids[2] || qs[1].ID != ids[1] {
		t.Errorf("not newest first: %s, %s", qs[0].QuestionText, qs[1].QuestionText)
	}

	qs, total, _ = s.ListQuestions(ctx, ListOpts{Offset: 3})
	if total != 4 || len(qs) != 1 || qs[0].ID != ids[0] {
		t.Errorf("offset page = %d/%d", len(qs), total)
	}

	secs, err := s.ListSections(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(secs) != 8 || secs[0].SectionID != sections.AirLaw {
		t.Errorf("sections = %+v", secs)
	}
	counts := map[string]int{}
	for _, sec := range secs {
		counts[sec.SectionID] = sec.QuestionCount
	}
	if counts[sections.Meteorology] != 3 || counts[sections.AirLaw] != 1 || counts[sections.Navigation] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestSQLStore_EnsureSectionsIdempotent(t *testing.T) {
	s := newSQLStore(t)
	if err := s.EnsureSections(context.Background()); err != nil {
		t.Fatal(err)
	}
	secs, _ := s.ListSections(context.Background())
	if len(secs) != 8 {
		t.Errorf("got %d sections after second ensure", len(secs))
	}
}

func TestSQLStore_RandomQuestions(t *testing.T) {
	ctx := context.Background()
	s := newSQLStore(t)
	for i := 0; i < 5; i++ {
		if _, err := s.CreateQuestion(ctx, sqlInput(sections.Communication, "radio question?")); err != nil {
			t.Fatal(err)
		}
	}
	qs, err := s.RandomQuestions(ctx, sections.Communication, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 3 {
		t.Errorf("got %d", len(qs))
	}
	qs, _ = s.RandomQuestions(ctx, sections.Communication, 16)
	if len(qs) != 5 {
		t.Errorf("pool of 5 returned %d", len(qs))
	}
	qs, _ = s.RandomQuestions(ctx, sections.Navigation, 16)
	if len(qs) != 0 {
		t.Errorf("empty section returned %d", len(qs))
	}
}
