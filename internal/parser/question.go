// Package parser turns plain text extracted from exam PDFs into structured
// multiple-choice questions.
//
// The pipeline is best effort: text is cut into numbered blocks, every block
// is checked against a handful of content heuristics and blocks that do not
// look like a question are dropped without an error. Callers get whatever
// could be recovered plus counters describing what was skipped.
package parser

// Heuristic thresholds. Lengths are counted in characters (runes).
const (
	// MinBlockLen drops page numbers, running headers and other short noise.
	MinBlockLen = 50
	// MinLetterRatio is the minimum share of letters in a block; tables and
	// numeric listings fall below it.
	MinLetterRatio = 0.3
	// MinQuestionLen is the minimum length of the normalized question text.
	MinQuestionLen = 15
	// HeadingGuardLen: question text longer than this without a '?' is taken
	// to be a captured heading or paragraph rather than a question.
	HeadingGuardLen = 200
	// LookbehindMargin is how much text is kept in front of the first
	// plausible question when front matter is skipped.
	LookbehindMargin = 100

	MinOptionLen = 2
	MaxOptionLen = 500
	MaxOptions   = 4
	minOptions   = 2

	MinExplanationLen = 5
	MaxExplanationLen = 1000

	// DedupPrefixLen is the length of the question text prefix used to
	// detect duplicates across the whole document.
	DedupPrefixLen = 50
)

// ExtractedQuestion is a question recovered from free text. It has no
// identity of its own; the question bank assigns one when it is stored.
type ExtractedQuestion struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"` // A-D, only when stated in the text
	Explanation   string   `json:"explanation,omitempty"`
	Section       string   `json:"section,omitempty"` // pre-assigned tag passed by the caller
}

// Result is the outcome of one parse run.
type Result struct {
	Questions  []ExtractedQuestion `json:"questions"`
	Blocks     int                 `json:"blocks"`     // candidate blocks found by the segmenter
	Skipped    int                 `json:"skipped"`    // blocks rejected by the extractor
	Duplicates int                 `json:"duplicates"` // questions removed by prefix dedup
}
