package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	reBlankRun = regexp.MustCompile(`\n{3,}`)

	// first plausible question: "12. Which ..." with a real sentence behind it
	reFirstQuestion = regexp.MustCompile(`\d+[.)]\s+[A-Z][^\d]{20,}`)

	// numbered item marker; the number must start the text or follow
	// whitespace and be followed by whitespace, so "29.92" is not a marker
	reNumberMarker = regexp.MustCompile(`(?:^|\s)(\d+)[.)]\s`)

	reBlankLine      = regexp.MustCompile(`\n[ \t]*\n\s*`)
	reNumberedPrefix = regexp.MustCompile(`^\d+[.)]`)
)

// normalize unifies line endings and collapses runs of blank lines.
func normalize(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = reBlankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// skipFrontMatter drops everything before the first plausible question,
// keeping LookbehindMargin characters of context in front of it.
func skipFrontMatter(text string) string {
	loc := reFirstQuestion.FindStringIndex(text)
	if loc == nil {
		return text
	}
	start := loc[0]
	for n := 0; n < LookbehindMargin && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	return text[start:]
}

// Segment splits raw document text into candidate question blocks, in
// document order. It never fails: text without numbered items yields either
// blank-line separated chunks or nothing at all.
func Segment(raw string) []string {
	text := skipFrontMatter(normalize(raw))
	if text == "" {
		return nil
	}

	marks := reNumberMarker.FindAllStringSubmatchIndex(text, -1)
	if len(marks) > 0 {
		blocks := make([]string, 0, len(marks))
		for i, m := range marks {
			start := m[2]
			end := len(text)
			if i+1 < len(marks) {
				end = marks[i+1][2]
			}
			blocks = append(blocks, text[start:end])
		}
		return blocks
	}

	return splitOnBlankLines(text)
}

// splitOnBlankLines is the fallback for text without marker matches: it
// cuts only at blank lines directly followed by something numbered.
func splitOnBlankLines(text string) []string {
	var blocks []string
	last := 0
	for _, loc := range reBlankLine.FindAllStringIndex(text, -1) {
		if !reNumberedPrefix.MatchString(text[loc[1]:]) {
			continue
		}
		blocks = append(blocks, text[last:loc[0]])
		last = loc[1]
	}
	return append(blocks, text[last:])
}
