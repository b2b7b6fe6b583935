package extract

import (
	"strings"
	"unicode/utf8"
)

// scoreEpsilon absorbs float rounding in sums such as 0.6 + 0.1.
const scoreEpsilon = 1e-9

// Select returns the accepted mention texts: candidates below minConf or
// vetoed are dropped, duplicates are collapsed case-insensitively
// keeping the highest confidence (earliest start on ties), and the
// survivors are returned in reading order with their original casing.
func Select(cands []Candidate, minConf float64) []string {
	kept := selectCandidates(cands, minConf)
	out := make([]string, len(kept))
	for i, c := range kept {
		out[i] = c.Text
	}
	return out
}

// SelectDetailed is Select returning match records with context.
func (e *Extractor) SelectDetailed(cands []Candidate, text string, minConf float64) []Match {
	return e.toMatches(selectCandidates(cands, minConf), text)
}

func selectCandidates(cands []Candidate, minConf float64) []Candidate {
	best := make(map[string]int)
	var kept []Candidate
	for _, c := range cands {
		if c.Vetoed || c.Confidence+scoreEpsilon < minConf {
			continue
		}
		key := strings.ToLower(c.Text)
		i, seen := best[key]
		if !seen {
			best[key] = len(kept)
			kept = append(kept, c)
			continue
		}
		cur := kept[i]
		if c.Confidence > cur.Confidence ||
			(c.Confidence == cur.Confidence && c.Start < cur.Start) {
			kept[i] = c
		}
	}
	sortByStart(kept)
	return kept
}

// runeStartBefore moves i back to the start of the UTF-8 sequence
// containing it, clamped to 0.
func runeStartBefore(s string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(s) {
		return len(s)
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeStartAfter moves i forward to the next rune boundary, clamped to
// len(s).
func runeStartAfter(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	if i < 0 {
		return 0
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

// backRunes returns the offset n characters before i.
func backRunes(s string, i, n int) int {
	i = runeStartBefore(s, i)
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return i
}

// forwardRunes returns the offset n characters after i.
func forwardRunes(s string, i, n int) int {
	i = runeStartAfter(s, i)
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}
