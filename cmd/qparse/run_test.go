package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mind-engage/ppl-mockexam/internal/logger"
	"github.com/mind-engage/ppl-mockexam/internal/sections"
)

const paper = `1. What is the standard pressure setting in the ISA at mean sea level?
A) 1013 hPa
B) 1000 hPa
C) 29.92 hPa
Answer: A

2. Which document must be carried on board according to ICAO regulations?
A) Certificate of airworthiness
B) Flight manual of another aircraft
C) Passenger list of the previous flight
Answer: A
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRunFile_Classifies(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "paper.txt", paper)

	var buf bytes.Buffer
	if err := runFile(context.Background(), p, options{Verbose: true, Log: logger.Nop()}, &buf); err != nil {
		t.Fatal(err)
	}
	var rep report
	if err := json.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Source != "paper.txt" || len(rep.Questions) != 2 {
		t.Fatalf("report = %+v", rep)
	}
	if got := rep.Questions[0].ClassifiedSection; got != sections.Meteorology {
		t.Errorf("q1 section = %s", got)
	}
	if got := rep.Questions[1].ClassifiedSection; got != sections.AirLaw {
		t.Errorf("q2 section = %s", got)
	}
	if len(rep.Questions[0].Scores) != 8 {
		t.Errorf("verbose scores missing: %+v", rep.Questions[0].Scores)
	}
}

func TestRunFile_SectionTag(t *testing.T) {
	p := writeFile(t, t.TempDir(), "paper.txt", paper)
	var buf bytes.Buffer
	if err := runFile(context.Background(), p, options{Section: sections.Navigation, Log: logger.Nop()}, &buf); err != nil {
		t.Fatal(err)
	}
	var rep report
	_ = json.Unmarshal(buf.Bytes(), &rep)
	for _, q := range rep.Questions {
		if q.ClassifiedSection != sections.Navigation || q.Scores != nil {
			t.Errorf("question = %+v", q)
		}
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", paper)
	writeFile(t, dir, "b.TXT", "no questions in here at all")
	writeFile(t, dir, "c.pdf", "not really a pdf")
	writeFile(t, dir, "notes.md", paper)

	var buf bytes.Buffer
	if err := runBatch(context.Background(), dir, options{Workers: 2, Log: logger.Nop()}, &buf); err != nil {
		t.Fatal(err)
	}
	var out batchReport
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Files != 3 || out.Questions != 2 || out.Failed != 1 {
		t.Errorf("batch = %+v", out)
	}
	if out.Reports[0].Source != "a.txt" || out.Reports[2].Error == "" {
		t.Errorf("reports = %+v", out.Reports)
	}
}
