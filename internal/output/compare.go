package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/inodb/vibe-varnorm/internal/equiv"
)

// Category classifies the comparison result for a single variant.
type Category string

const (
	CatMatch           Category = "match"
	CatNormalizedMatch Category = "normalized_match"
	CatPredictedOnly   Category = "predicted_only"
	CatReferenceOnly   Category = "reference_only"
)

// isShownByDefault returns whether rows with this category are shown without --all.
func isShownByDefault(cat Category) bool {
	return cat != CatMatch
}

// Comparison is the classification of one predicted or reference variant.
type Comparison struct {
	Predicted string
	Reference string
	Canonical string
	Category  Category
}

// Classify pairs predicted variants with reference variants. A predicted
// variant is a match when a reference is literally the same string (case
// and surrounding space ignored), a normalized_match when only their
// canonical forms agree, and predicted_only otherwise. References left
// unpaired are reference_only. Blank entries are skipped.
func Classify(g *equiv.Grouper, predicted, reference []string) []Comparison {
	literal := make(map[string]int, len(reference))
	canonical := make(map[string]int, len(reference))
	refCanon := make([]string, len(reference))
	for i, r := range reference {
		key := strings.ToLower(strings.TrimSpace(r))
		if key == "" {
			continue
		}
		refCanon[i] = g.Canonical(r)
		if _, ok := literal[key]; !ok {
			literal[key] = i
		}
		if _, ok := canonical[refCanon[i]]; !ok {
			canonical[refCanon[i]] = i
		}
	}

	paired := make([]bool, len(reference))
	var out []Comparison
	for _, p := range predicted {
		key := strings.ToLower(strings.TrimSpace(p))
		if key == "" {
			continue
		}
		c := Comparison{Predicted: p, Canonical: g.Canonical(p), Category: CatPredictedOnly}
		if i, ok := literal[key]; ok {
			c.Reference, c.Category = reference[i], CatMatch
			markCanonical(paired, refCanon, refCanon[i])
		} else if i, ok := canonical[c.Canonical]; ok {
			c.Reference, c.Category = reference[i], CatNormalizedMatch
			markCanonical(paired, refCanon, c.Canonical)
		}
		out = append(out, c)
	}

	for i, r := range reference {
		if paired[i] || strings.TrimSpace(r) == "" {
			continue
		}
		out = append(out, Comparison{Reference: r, Canonical: refCanon[i], Category: CatReferenceOnly})
	}
	return out
}

// markCanonical pairs every reference sharing canon, so duplicate
// spellings of one reference variant are not reported as missed.
func markCanonical(paired []bool, refCanon []string, canon string) {
	for i, c := range refCanon {
		if c == canon {
			paired[i] = true
		}
	}
}

// CompareWriter writes tab-delimited comparison output between predicted
// and reference variant lists, with category-based classification.
type CompareWriter struct {
	w         io.Writer
	grouper   *equiv.Grouper
	counts    map[Category]int
	predicted []string
	reference []string
	total     int
	showAll   bool
}

// NewCompareWriter creates a new comparison output writer.
func NewCompareWriter(w io.Writer, g *equiv.Grouper, showAll bool) *CompareWriter {
	return &CompareWriter{
		w:       w,
		grouper: g,
		counts:  make(map[Category]int),
		showAll: showAll,
	}
}

// WriteHeader writes the comparison output header.
func (c *CompareWriter) WriteHeader() error {
	_, err := fmt.Fprintln(c.w, strings.Join([]string{"Predicted", "Reference", "Normalized", "Category"}, "\t"))
	return err
}

// WriteComparison classifies one predicted/reference pair of lists and
// writes a row per variant. Match rows are hidden unless showAll is set.
func (c *CompareWriter) WriteComparison(predicted, reference []string) error {
	c.predicted = append(c.predicted, predicted...)
	c.reference = append(c.reference, reference...)

	for _, cmp := range Classify(c.grouper, predicted, reference) {
		c.total++
		c.counts[cmp.Category]++
		if !c.showAll && !isShownByDefault(cmp.Category) {
			continue
		}
		parts := []string{orDash(cleanField(cmp.Predicted)), orDash(cleanField(cmp.Reference)),
			orDash(cmp.Canonical), string(cmp.Category)}
		if _, err := fmt.Fprintln(c.w, strings.Join(parts, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// Total returns the number of classified variants.
func (c *CompareWriter) Total() int {
	return c.total
}

// Counts returns the per-category counts.
func (c *CompareWriter) Counts() map[Category]int {
	return c.counts
}

// Overlap returns set overlap metrics over everything compared so far.
func (c *CompareWriter) Overlap() equiv.OverlapReport {
	return c.grouper.Overlap(c.predicted, c.reference)
}

// WriteSummary writes category counts and overlap metrics to the given writer.
func (c *CompareWriter) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "\nComparison Summary (%d variants):\n\n", c.total)

	// Sort categories by count descending
	type catCount struct {
		cat   Category
		count int
	}
	var sorted []catCount
	for cat, count := range c.counts {
		sorted = append(sorted, catCount{cat, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].cat < sorted[j].cat
	})
	for _, cc := range sorted {
		fmt.Fprintf(w, "  %-20s%d\n", cc.cat, cc.count)
	}

	r := c.Overlap()
	fmt.Fprintf(w, "\n  %-20s%d\n", "intersection", r.IntersectionSize)
	fmt.Fprintf(w, "  %-20s%d\n", "predicted", r.PredictedSize)
	fmt.Fprintf(w, "  %-20s%d\n", "reference", r.ReferenceSize)
	fmt.Fprintf(w, "  %-20s%d\n", "union", r.UnionSize)
	fmt.Fprintf(w, "  %-20s%.3f\n", "jaccard", r.Jaccard)
	fmt.Fprintf(w, "  %-20s%.3f\n", "precision", r.Precision)
	fmt.Fprintf(w, "  %-20s%.3f\n", "recall", r.Recall)
}
