package parser

// SegmentAndExtract runs the whole pipeline over raw document text and
// returns the questions found, in document order. sourceTag is copied into
// every question's Section field; pass "" to leave classification to the
// caller.
func SegmentAndExtract(raw, sourceTag string) []ExtractedQuestion {
	return Parse(raw, sourceTag).Questions
}

// Parse is SegmentAndExtract with counters. It never fails; a Result with no
// questions means nothing usable was found.
func Parse(raw, sourceTag string) Result {
	blocks := Segment(raw)
	res := Result{Blocks: len(blocks), Questions: []ExtractedQuestion{}}

	found := make([]ExtractedQuestion, 0, len(blocks))
	for _, b := range blocks {
		q, ok := ExtractBlock(b, sourceTag)
		if !ok {
			res.Skipped++
			continue
		}
		found = append(found, q)
	}

	res.Questions = Dedup(found)
	res.Duplicates = len(found) - len(res.Questions)
	return res
}

// Dedup drops questions whose first DedupPrefixLen characters repeat an
// earlier question. Order of the survivors is preserved.
func Dedup(qs []ExtractedQuestion) []ExtractedQuestion {
	seen := make(map[string]struct{}, len(qs))
	out := make([]ExtractedQuestion, 0, len(qs))
	for _, q := range qs {
		key := prefix(q.QuestionText, DedupPrefixLen)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	return out
}

func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
