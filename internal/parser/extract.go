package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reWhitespace = regexp.MustCompile(`\s+`)

	// question head: the first numbered marker followed by text
	reQuestionHead = regexp.MustCompile(`(?:^|\s)\d+[.)]\s*([^\d\s])`)
	reLeadingNum   = regexp.MustCompile(`^\d+[.)]\s*`)
	reHeadingWords = regexp.MustCompile(`(?i)^(?:TABLE|CONTENTS|PAGE|CHAPTER|SECTION)`)

	// option conventions, tried in this order
	reUpperOption = regexp.MustCompile(`(?:^|\s)([A-D])[.):]\s*`)
	reParenOption = regexp.MustCompile(`\(([A-Da-d])\)\s*`)
	reLowerOption = regexp.MustCompile(`(?:^|\s)([a-d])[.)]\s*`)

	// "Answer: B", "Correct - c", "Solution (D)"; a bare "correct" inside a
	// sentence is not a label
	reAnswerLabel = regexp.MustCompile(`(?i)\b(?:answer|correct|solution|ans)\b\s*(?::|-|\s+\(?[a-d]\)?(?:[\s.)]|$))`)
	// "Explanation" needs a colon unless it opens a line; "reason" and
	// "note" always need one
	reExplainHead = regexp.MustCompile(`(?im)(?:\bexplanation\s*:\s*|^[ \t]*explanation\b[ \t]*|\b(?:reason|note)\s*:\s*)`)

	reAnswerLetter  = regexp.MustCompile(`(?i)\b(?:answer|correct|solution|ans)\b[-:\s]+\(?([a-d])\b`)
	reLeadingAnswer = regexp.MustCompile(`(?im)^\s*([a-d])[.)]\s*(?:answer|correct)\b`)
)

// ExtractBlock turns one candidate block into a question. The second return
// value is false when the block does not hold a usable question. A fault on a
// malformed block is treated the same way.
func ExtractBlock(block, section string) (q ExtractedQuestion, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			q, ok = ExtractedQuestion{}, false
		}
	}()

	if !passesDensityGate(block) {
		return ExtractedQuestion{}, false
	}

	text, rest, found := questionText(block)
	if !found || !plausibleQuestion(text) {
		return ExtractedQuestion{}, false
	}

	options := extractOptions(rest)
	if len(options) < minOptions {
		return ExtractedQuestion{}, false
	}

	return ExtractedQuestion{
		QuestionText:  text,
		Options:       options,
		CorrectAnswer: correctAnswer(rest),
		Explanation:   explanation(rest),
		Section:       section,
	}, true
}

func passesDensityGate(block string) bool {
	trimmed := strings.TrimSpace(block)
	total := utf8.RuneCountInString(trimmed)
	if total < MinBlockLen {
		return false
	}
	letters := 0
	for _, r := range trimmed {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return float64(letters)/float64(total) >= MinLetterRatio
}

// questionText returns the normalized question and the remainder of the
// block that follows it (where options, answer and explanation live).
func questionText(block string) (string, string, bool) {
	head := reQuestionHead.FindStringSubmatchIndex(block)
	if head == nil {
		return "", "", false
	}
	body := block[head[2]:]
	// a stem may end in a label word ("... is correct:"), so only an option
	// marker closes it; without options the answer label does
	end := earliest(body, optionMarkers...)
	if end == len(body) {
		end = earliest(body, reAnswerLabel)
	}

	text := collapse(body[:end])
	text = strings.TrimSpace(reLeadingNum.ReplaceAllString(text, ""))
	if text == "" {
		return "", "", false
	}
	return text, body[end:], true
}

func plausibleQuestion(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < MinQuestionLen {
		return false
	}
	if n > HeadingGuardLen && !strings.Contains(text, "?") {
		return false
	}
	return !reHeadingWords.MatchString(text)
}

var optionMarkers = []*regexp.Regexp{reUpperOption, reParenOption, reLowerOption}

// extractOptions looks for options in the text after the question, from the
// first option marker up to the first answer or explanation label after it.
func extractOptions(rest string) []string {
	start := earliest(rest, optionMarkers...)
	region := rest[:start+earliest(rest[start:], reAnswerLabel, reExplainHead)]

	for _, marker := range optionMarkers {
		raw := optionsByMarker(region, marker)
		if len(raw) < minOptions {
			continue
		}
		return uniqueOptions(raw)
	}
	return nil
}

// optionsByMarker collects the text between consecutive markers of one
// convention.
func optionsByMarker(region string, marker *regexp.Regexp) []string {
	locs := marker.FindAllStringIndex(region, -1)
	var out []string
	for i, loc := range locs {
		end := len(region)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		opt := collapse(region[loc[1]:end])
		n := utf8.RuneCountInString(opt)
		if n < MinOptionLen || n > MaxOptionLen {
			continue
		}
		out = append(out, opt)
	}
	return out
}

func uniqueOptions(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, MaxOptions)
	for _, o := range raw {
		if _, dup := seen[o]; dup {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
		if len(out) == MaxOptions {
			break
		}
	}
	return out
}

func correctAnswer(rest string) string {
	for _, re := range []*regexp.Regexp{reAnswerLetter, reLeadingAnswer} {
		if m := re.FindStringSubmatch(rest); m != nil {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}

func explanation(rest string) string {
	head := reExplainHead.FindStringIndex(rest)
	if head == nil {
		return ""
	}
	body := rest[head[1]:]

	// up to the next numbered item or answer label
	if e := collapse(body[:earliest(body, reNumberMarker, reAnswerLabel)]); validExplanation(e) {
		return e
	}
	// a long trailing note: settle for its first paragraph
	if i := strings.Index(body, "\n\n"); i >= 0 {
		if e := collapse(body[:i]); validExplanation(e) {
			return e
		}
	}
	return ""
}

func validExplanation(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= MinExplanationLen && n <= MaxExplanationLen
}

// earliest returns the smallest match offset of any pattern in s, or len(s)
// when none matches.
func earliest(s string, patterns ...*regexp.Regexp) int {
	end := len(s)
	for _, re := range patterns {
		if loc := re.FindStringIndex(s); loc != nil && loc[0] < end {
			end = loc[0]
		}
	}
	return end
}

func collapse(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}
