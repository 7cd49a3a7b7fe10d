package exam

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("attempt not found")
	ErrNoQuestions      = errors.New("no questions available for this section")
	ErrAlreadySubmitted = errors.New("attempt already submitted")
)

const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"

	BandPass       = "pass"
	BandBorderline = "borderline"
	BandFail       = "fail"

	DefaultQuestionCount = 16
)

// Attempt is one mock exam run over a fixed set of questions.
type Attempt struct {
	ID          string
	SectionID   string
	UserID      string
	Status      string
	QuestionIDs []string
	Answers     map[string]string // question id -> letter
	Score       float64
	Result      *Result
	StartedAt   time.Time
	SubmittedAt time.Time
}

// Question is the student-safe view: no answer, no explanation.
type Question struct {
	ID           string `json:"id"`
	QuestionText string `json:"questionText"`
	OptionA      string `json:"optionA"`
	OptionB      string `json:"optionB"`
	OptionC      string `json:"optionC,omitempty"`
	OptionD      string `json:"optionD,omitempty"`
}

// View is what the API returns for an attempt. Result is set once submitted.
type View struct {
	AttemptID   string     `json:"attemptId"`
	SectionID   string     `json:"sectionId"`
	SectionName string     `json:"sectionName"`
	Status      string     `json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	Questions   []Question `json:"questions"`
	Result      *Result    `json:"result,omitempty"`
}

type Result struct {
	Correct        int          `json:"correct"`
	Incorrect      int          `json:"incorrect"`
	Unanswered     int          `json:"unanswered"`
	Total          int          `json:"total"`
	Score          int          `json:"score"`
	Percentage     float64      `json:"percentage"`
	ElapsedSeconds int64        `json:"elapsedSeconds"`
	Band           string       `json:"band"`
	Review         []ReviewItem `json:"review"`
}

type ReviewItem struct {
	Question
	Selected      string `json:"selected,omitempty"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation,omitempty"`
}

// Band maps a rounded percent score to pass/borderline/fail.
func Band(score int) string {
	switch {
	case score >= 80:
		return BandPass
	case score >= 60:
		return BandBorderline
	default:
		return BandFail
	}
}
