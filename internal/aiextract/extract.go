package aiextract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mind-engage/ppl-mockexam/internal/sections"
)

const (
	// MaxEstimatedTokens bounds the input; tokens are estimated as len/4.
	MaxEstimatedTokens = 100000
	defaultConfidence  = 80
)

// Question is one AI-extracted question awaiting admin review.
type Question struct {
	QuestionText     string `json:"questionText"`
	OptionA          string `json:"optionA"`
	OptionB          string `json:"optionB"`
	OptionC          string `json:"optionC"`
	OptionD          string `json:"optionD,omitempty"`
	CorrectAnswer    string `json:"correctAnswer"`
	Explanation      string `json:"explanation,omitempty"`
	SuggestedSection string `json:"suggestedSection"`
	Confidence       int    `json:"confidence"`
}

const systemPrompt = "You extract structured data from aviation exam papers. You always answer with a single valid JSON object."

func userPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract every multiple-choice question from the exam text below.\n\n")
	b.WriteString("For each question give the full question text, options A, B, C (and D when present), ")
	b.WriteString("the correct answer letter, the explanation if the text contains one, ")
	b.WriteString("the best matching section and your confidence (0-100) in the extraction.\n\n")
	b.WriteString("Sections:\n")
	for _, s := range sections.All() {
		fmt.Fprintf(&b, "- %s (%s)\n", s.ID, hints[s.ID])
	}
	b.WriteString(`
Answer with exactly this shape:
{"questions": [{"questionText": "...", "optionA": "...", "optionB": "...", "optionC": "...",
  "optionD": "... or null", "correctAnswer": "A|B|C|D", "explanation": "... or null",
  "suggestedSection": "<section id>", "confidence": 95}]}

Rules:
- only extract questions that are actually in the text, never invent any
- optionD is null when the question has three options
- correctAnswer is exactly one of A, B, C, D
- suggestedSection is one of the section ids above
- use a confidence below 70 when the question could not be read cleanly

EXAM TEXT:
`)
	b.WriteString(text)
	return b.String()
}

var hints = map[string]string{
	sections.AirLaw:                "regulations, ICAO, EASA, legal, airspace rules",
	sections.Meteorology:           "weather, clouds, wind, temperature, pressure",
	sections.PrinciplesOfFlight:    "aerodynamics, lift, drag, thrust, stall",
	sections.AircraftGeneral:       "engines, systems, instruments, fuel",
	sections.HumanPerformance:      "physiology, fatigue, decision making, crew resource",
	sections.OperationalProcedures: "checklists, emergency, SOPs, safety",
	sections.Navigation:            "VOR, GPS, charts, waypoints, heading",
	sections.Communication:         "radio, phraseology, ATC, transponder",
}

// Extract sends the text to the model and returns the questions that pass
// validation. Invalid entries are dropped and logged.
func (c *Client) Extract(ctx context.Context, text string) ([]Question, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if EstimateTokens(text) > MaxEstimatedTokens {
		return nil, ErrTextTooLarge
	}

	content, err := c.complete(ctx, systemPrompt, userPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("failed to extract questions with AI: %w", err)
	}
	raw, err := questionList(content)
	if err != nil {
		return nil, err
	}

	out := make([]Question, 0, len(raw))
	for i, item := range raw {
		q, reason := validate(item)
		if reason != "" {
			c.log.Warn("skipping AI question", "index", i, "reason", reason)
			continue
		}
		out = append(out, q)
	}
	c.log.Info("AI extraction done", "model", c.model, "returned", len(raw), "valid", len(out))
	return out, nil
}

func EstimateTokens(text string) int { return len(text) / 4 }

// questionList accepts either a bare array or {"questions": [...]}.
func questionList(content string) ([]json.RawMessage, error) {
	content = strings.TrimSpace(content)
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(content), &arr); err == nil {
		return arr, nil
	}
	var obj struct {
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return nil, fmt.Errorf("invalid JSON response from OpenAI: %w", err)
	}
	return obj.Questions, nil
}

type rawQuestion struct {
	QuestionText     *string  `json:"questionText"`
	OptionA          *string  `json:"optionA"`
	OptionB          *string  `json:"optionB"`
	OptionC          *string  `json:"optionC"`
	OptionD          *string  `json:"optionD"`
	CorrectAnswer    *string  `json:"correctAnswer"`
	Explanation      *string  `json:"explanation"`
	SuggestedSection *string  `json:"suggestedSection"`
	Confidence       *float64 `json:"confidence"`
}

// validate returns the cleaned question, or a non-empty reason it was rejected.
func validate(item json.RawMessage) (Question, string) {
	var r rawQuestion
	if err := json.Unmarshal(item, &r); err != nil {
		return Question{}, "malformed entry"
	}
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return strings.TrimSpace(*p)
	}
	q := Question{
		QuestionText:     str(r.QuestionText),
		OptionA:          str(r.OptionA),
		OptionB:          str(r.OptionB),
		OptionC:          str(r.OptionC),
		OptionD:          str(r.OptionD),
		CorrectAnswer:    strings.ToUpper(str(r.CorrectAnswer)),
		Explanation:      str(r.Explanation),
		SuggestedSection: str(r.SuggestedSection),
		Confidence:       defaultConfidence,
	}
	if q.QuestionText == "" || q.OptionA == "" || q.OptionB == "" || q.OptionC == "" ||
		q.CorrectAnswer == "" || q.SuggestedSection == "" {
		return Question{}, "missing required fields"
	}
	switch q.CorrectAnswer {
	case "A", "B", "C", "D":
	default:
		return Question{}, "invalid correct answer " + q.CorrectAnswer
	}
	if !sections.Valid(q.SuggestedSection) {
		q.SuggestedSection = sections.Fallback
	}
	if r.Confidence != nil && *r.Confidence > 0 {
		c := int(*r.Confidence + 0.5)
		if c > 100 {
			c = 100
		}
		q.Confidence = c
	}
	return q, ""
}
