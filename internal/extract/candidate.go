package extract

import "github.com/inodb/vibe-varnorm/internal/pattern"

// Candidate is one pattern (or model) match in the source text.
// Start and End are byte offsets; text[Start:End] == Text.
type Candidate struct {
	Text        string
	Category    pattern.Category
	Pattern     string
	Start       int
	End         int
	Confidence  float64
	Specificity int
	Short       bool

	// Vetoed is set by Score when the blacklist rejects the candidate.
	Vetoed bool

	rank int // registration order of the producing pattern
}

// Len returns the span length in bytes.
func (c Candidate) Len() int {
	return c.End - c.Start
}

// Overlaps reports whether the half-open spans of c and o intersect.
func (c Candidate) Overlaps(o Candidate) bool {
	return c.Start < o.End && o.Start < c.End
}

// Match is an accepted mention with its surrounding context, for audit
// and debugging output.
type Match struct {
	Variant       string           `json:"variant"`
	Confidence    float64          `json:"confidence"`
	Category      pattern.Category `json:"category"`
	Pattern       string           `json:"pattern"`
	ContextBefore string           `json:"context_before"`
	ContextAfter  string           `json:"context_after"`
	Start         int              `json:"start"`
	End           int              `json:"end"`
}
