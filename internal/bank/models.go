package bank

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("question not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrValidation      = errors.New("invalid question")
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	SourceManual = "manual"
	SourceAI     = "AI extraction"

	DefaultListLimit = 100
	MaxListLimit     = 500
)

type Section struct {
	SectionID     string `json:"sectionId"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	QuestionCount int    `json:"questionCount"`
}

type Question struct {
	ID            string    `json:"id"`
	SectionID     string    `json:"sectionId"`
	SectionName   string    `json:"sectionName,omitempty"`
	QuestionText  string    `json:"questionText"`
	OptionA       string    `json:"optionA"`
	OptionB       string    `json:"optionB"`
	OptionC       string    `json:"optionC"`
	OptionD       string    `json:"optionD,omitempty"`
	CorrectAnswer string    `json:"correctAnswer"`
	Explanation   string    `json:"explanation,omitempty"`
	Difficulty    string    `json:"difficulty"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Options returns the non-empty options in A..D order.
func (q Question) Options() []string {
	out := make([]string, 0, 4)
	for _, o := range []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD} {
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// QuestionInput is one question to create, from the admin form or a bulk row.
type QuestionInput struct {
	SectionID     string `json:"sectionId"`
	QuestionText  string `json:"questionText"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD,omitempty"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
	Source        string `json:"source,omitempty"`
}

// QuestionPatch is a partial update. Nil fields are left alone; OptionD and
// Explanation may be set to "" to clear them.
type QuestionPatch struct {
	SectionID     *string `json:"sectionId,omitempty"`
	QuestionText  *string `json:"questionText,omitempty"`
	OptionA       *string `json:"optionA,omitempty"`
	OptionB       *string `json:"optionB,omitempty"`
	OptionC       *string `json:"optionC,omitempty"`
	OptionD       *string `json:"optionD,omitempty"`
	CorrectAnswer *string `json:"correctAnswer,omitempty"`
	Explanation   *string `json:"explanation,omitempty"`
	Difficulty    *string `json:"difficulty,omitempty"`
}

func (p QuestionPatch) apply(q *Question) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&q.SectionID, p.SectionID)
	set(&q.QuestionText, p.QuestionText)
	set(&q.OptionA, p.OptionA)
	set(&q.OptionB, p.OptionB)
	set(&q.OptionC, p.OptionC)
	set(&q.OptionD, p.OptionD)
	set(&q.CorrectAnswer, p.CorrectAnswer)
	set(&q.Explanation, p.Explanation)
	set(&q.Difficulty, p.Difficulty)
}

type ListOpts struct {
	SectionID string
	Limit     int
	Offset    int
}

func (o ListOpts) normalized() ListOpts {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// BulkResult reports a bulk save or import. Messages holds at most the first
// ten error messages.
type BulkResult struct {
	Processed int      `json:"processed"`
	Saved     int      `json:"saved"`
	Errors    int      `json:"errors"`
	Messages  []string `json:"messages"`
}

const maxBulkMessages = 10

func (r *BulkResult) fail(msg string) {
	r.Errors++
	if len(r.Messages) < maxBulkMessages {
		r.Messages = append(r.Messages, msg)
	}
}
