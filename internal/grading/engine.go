// Package grading scores single-choice answers.
package grading

import (
	"strings"
)

// Q is the minimal view of a question needed for grading.
type Q struct {
	ID            string
	CorrectAnswer string
	Points        float64
}

// Result is the outcome of grading one response.
type Result struct {
	Selected   string
	Answered   bool
	Correct    bool
	AutoPoints float64
	MaxPoints  float64
}

// Strategy grades a single question.
type Strategy interface {
	Grade(q Q, response string) Result
}

// NewDefaultGrader returns the single-choice strategy used for exam letters A-D.
func NewDefaultGrader() Strategy { return singleChoice{} }

type singleChoice struct{}

func (singleChoice) Grade(q Q, response string) Result {
	res := Result{MaxPoints: q.Points}
	resp := NormalizeLetter(response)
	if resp == "" {
		return res
	}
	res.Selected = resp
	res.Answered = true
	if resp == NormalizeLetter(q.CorrectAnswer) {
		res.Correct = true
		res.AutoPoints = q.Points
	}
	return res
}

// NormalizeLetter upper-cases and trims a response; anything outside A-D
// counts as unanswered.
func NormalizeLetter(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "A", "B", "C", "D":
		return s
	}
	return ""
}

// Summary totals a set of graded responses.
type Summary struct {
	Correct    int
	Incorrect  int
	Unanswered int
	Total      int
	Points     float64
	MaxPoints  float64
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Total++
		s.MaxPoints += r.MaxPoints
		s.Points += r.AutoPoints
		switch {
		case !r.Answered:
			s.Unanswered++
		case r.Correct:
			s.Correct++
		default:
			s.Incorrect++
		}
	}
	return s
}
