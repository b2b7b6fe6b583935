// Package lexicon filters lexical false positives out of variant candidates.
//
// A Lexicon holds three term lists: a literal blacklist of tokens that
// collide with short variant syntaxes, and positive and negative context
// keywords that raise or lower a candidate's confidence. Keyword lookup
// uses one Aho-Corasick automaton per list, so scanning a context window
// is linear in its length regardless of the number of keywords.
package lexicon

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
)

// Confidence adjustments applied by Adjust.
const (
	PositiveBoost    = 0.1
	NegativePenalty  = 0.2
	ShortPenalty     = 0.2
	histoneMarkShape = `(?i)^H[1-4][A-Z]\d+(?:me[1-3]?|ac|ub|ph|cr)$`
)

var histoneMark = regexp.MustCompile(histoneMarkShape)

// Terms are the raw term lists a Lexicon is built from.
type Terms struct {
	Blacklist []string `yaml:"blacklist"`
	Positive  []string `yaml:"positive"`
	Negative  []string `yaml:"negative"`
}

// Context is the text window surrounding a candidate.
type Context struct {
	Before string
	After  string
}

// Hits lists the distinct keywords found in a context window, in first
// occurrence order.
type Hits struct {
	Positive []string
	Negative []string
}

// Lexicon is immutable after construction and safe for concurrent use.
type Lexicon struct {
	blacklist map[string]struct{}
	positive  keywordSet
	negative  keywordSet
}

// keywordSet is a lowercase keyword list with its automaton.
// prefix[i] is set when words[i] was written with a trailing '*'.
// ac is nil when the list is empty.
type keywordSet struct {
	words  []string
	prefix []bool
	ac     *ahocorasick.Automaton
}

// New builds a Lexicon from t. Terms are trimmed, lowercased and
// deduplicated; blank entries are ignored. A keyword matches whole
// words only unless it ends in '*', in which case it matches any word
// it begins: "mutation*" covers "mutations" and "mutational".
func New(t Terms) (*Lexicon, error) {
	l := &Lexicon{blacklist: make(map[string]struct{}, len(t.Blacklist))}
	for _, tok := range t.Blacklist {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			l.blacklist[tok] = struct{}{}
		}
	}

	var err error
	if l.positive, err = buildKeywords(t.Positive); err != nil {
		return nil, fmt.Errorf("building positive keywords: %w", err)
	}
	if l.negative, err = buildKeywords(t.Negative); err != nil {
		return nil, fmt.Errorf("building negative keywords: %w", err)
	}
	return l, nil
}

func buildKeywords(words []string) (keywordSet, error) {
	seen := make(map[string]int, len(words))
	var ks keywordSet
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		prefix := strings.HasSuffix(w, "*")
		w = strings.TrimSpace(strings.TrimSuffix(w, "*"))
		if w == "" {
			continue
		}
		if i, ok := seen[w]; ok {
			ks.prefix[i] = ks.prefix[i] || prefix
			continue
		}
		seen[w] = len(ks.words)
		ks.words = append(ks.words, w)
		ks.prefix = append(ks.prefix, prefix)
	}
	if len(ks.words) == 0 {
		return ks, nil
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(ks.words).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return ks, err
	}
	ks.ac = ac
	return ks, nil
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the shared Lexicon built from DefaultTerms.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		l, err := New(DefaultTerms())
		if err != nil {
			panic("lexicon: invalid default terms: " + err.Error())
		}
		defaultLex = l
	})
	return defaultLex
}

// IsListed reports whether token is a blacklisted literal or has the
// shape of a histone modification mark.
func (l *Lexicon) IsListed(token string) bool {
	token = strings.TrimSpace(token)
	if _, ok := l.blacklist[strings.ToLower(token)]; ok {
		return true
	}
	return histoneMark.MatchString(token)
}

// IsBlacklisted reports whether a candidate should be vetoed.
// In strict mode a listed token is vetoed on its own; otherwise the
// context must also carry a negative keyword.
func (l *Lexicon) IsBlacklisted(token string, ctx Context, strict bool) bool {
	if !l.IsListed(token) {
		return false
	}
	if strict {
		return true
	}
	return len(l.negative.find(ctx)) > 0
}

// Scan returns the distinct positive and negative keywords in ctx.
func (l *Lexicon) Scan(ctx Context) Hits {
	return Hits{
		Positive: l.positive.find(ctx),
		Negative: l.negative.find(ctx),
	}
}

// Adjust applies keyword boosts and penalties to base and clamps the
// result to [0,1]. Short candidates lose ShortPenalty more when no
// positive keyword supports them.
func (l *Lexicon) Adjust(base float64, short bool, ctx Context) float64 {
	return AdjustHits(base, short, l.Scan(ctx))
}

// AdjustHits is Adjust for an already scanned window.
func AdjustHits(base float64, short bool, h Hits) float64 {
	score := base
	score += PositiveBoost * float64(len(h.Positive))
	score -= NegativePenalty * float64(len(h.Negative))
	if short && len(h.Positive) == 0 {
		score -= ShortPenalty
	}
	return Clamp(score)
}

// Clamp limits v to [0,1].
func Clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Size returns the number of blacklist, positive and negative terms.
func (l *Lexicon) Size() (blacklist, positive, negative int) {
	return len(l.blacklist), len(l.positive.words), len(l.negative.words)
}

// Blacklist returns the blacklisted tokens in sorted order.
func (l *Lexicon) Blacklist() []string {
	out := make([]string, 0, len(l.blacklist))
	for tok := range l.blacklist {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

// find scans both halves of the window separately so a keyword cannot
// be assembled across the candidate itself. Matches must start a word
// and, for non-prefix keywords, end one.
func (ks keywordSet) find(ctx Context) []string {
	if ks.ac == nil {
		return nil
	}
	var found []string
	seen := make(map[int]bool)
	for _, part := range [2]string{ctx.Before, ctx.After} {
		if part == "" {
			continue
		}
		hay := []byte(strings.ToLower(part))
		for _, m := range ks.ac.FindAllOverlapping(hay) {
			if seen[m.PatternID] || !wordStart(hay, m.Start) {
				continue
			}
			if !ks.prefix[m.PatternID] && !wordEnd(hay, m.End) {
				continue
			}
			seen[m.PatternID] = true
			found = append(found, ks.words[m.PatternID])
		}
	}
	return found
}

// wordStart reports whether the byte at i begins a word.
func wordStart(hay []byte, i int) bool {
	if i <= 0 {
		return true
	}
	r, _ := utf8.DecodeLastRune(hay[:i])
	return !isWordRune(r)
}

// wordEnd reports whether a match ending just before byte i ends a word.
// A keyword whose last rune is punctuation, such as "kit (", always does.
func wordEnd(hay []byte, i int) bool {
	if i >= len(hay) {
		return true
	}
	last, _ := utf8.DecodeLastRune(hay[:i])
	if !isWordRune(last) {
		return true
	}
	r, _ := utf8.DecodeRune(hay[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
