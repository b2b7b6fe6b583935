// Package equiv groups variant mentions that normalize identically and
// measures the overlap between predicted and reference mention sets.
package equiv

import (
	"strings"

	"github.com/inodb/vibe-varnorm/internal/normalize"
)

// DefaultThreshold is the normalization confidence both sides of a
// comparison need before their canonical forms are trusted.
const DefaultThreshold = 0.7

// EquivalenceGroup is one class of mentions sharing a canonical form.
type EquivalenceGroup struct {
	Normalized string   `json:"normalized"`
	Members    []string `json:"members"`
}

// OverlapReport compares a predicted and a reference mention set on
// their normalized forms.
type OverlapReport struct {
	IntersectionSize int     `json:"intersection_size"`
	PredictedSize    int     `json:"predicted_size"`
	ReferenceSize    int     `json:"reference_size"`
	UnionSize        int     `json:"union_size"`
	Jaccard          float64 `json:"jaccard"`
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
}

// Grouper compares variant strings through a Normalizer.
type Grouper struct {
	normalizer *normalize.Normalizer
	threshold  float64
}

// New creates a grouper. A threshold <= 0 selects DefaultThreshold.
func New(threshold float64) *Grouper {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Grouper{normalizer: normalize.New(), threshold: threshold}
}

// SetNormalizer replaces the normalizer, e.g. to attach metrics.
func (g *Grouper) SetNormalizer(n *normalize.Normalizer) {
	g.normalizer = n
}

// Threshold returns the confidence threshold.
func (g *Grouper) Threshold() float64 {
	return g.threshold
}

// Canonical returns the form v is compared under: its normalized form
// when normalization is confident, otherwise the lowercased input.
func (g *Grouper) Canonical(v string) string {
	nv := g.normalizer.Normalize(v)
	if nv.Confidence >= g.threshold {
		return nv.Normalized
	}
	return strings.ToLower(strings.TrimSpace(v))
}

// AreEquivalent reports whether a and b denote the same variant. When
// both normalize with confidence at or above the threshold their
// canonical forms are compared; otherwise the raw strings are compared
// case-insensitively.
func (g *Grouper) AreEquivalent(a, b string) bool {
	va, vb := g.normalizer.Normalize(a), g.normalizer.Normalize(b)
	if va.Confidence >= g.threshold && vb.Confidence >= g.threshold {
		return va.Normalized == vb.Normalized
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Group partitions variants greedily: each unassigned variant collects
// every later unassigned variant equivalent to it. Groups are ordered
// by their first member and members keep input order.
func (g *Grouper) Group(variants []string) [][]string {
	classes := g.Classes(variants)
	out := make([][]string, len(classes))
	for i, c := range classes {
		out[i] = c.Members
	}
	return out
}

// Classes is Group returning the canonical form of each class. A class
// whose seed did not normalize confidently is labelled with the
// lowercased seed.
func (g *Grouper) Classes(variants []string) []EquivalenceGroup {
	norms := make([]normalize.NormalizedVariant, len(variants))
	for i, v := range variants {
		norms[i] = g.normalizer.Normalize(v)
	}
	equivalent := func(i, j int) bool {
		if norms[i].Confidence >= g.threshold && norms[j].Confidence >= g.threshold {
			return norms[i].Normalized == norms[j].Normalized
		}
		return strings.EqualFold(strings.TrimSpace(variants[i]), strings.TrimSpace(variants[j]))
	}

	done := make([]bool, len(variants))
	var out []EquivalenceGroup
	for i := range variants {
		if done[i] {
			continue
		}
		done[i] = true
		label := norms[i].Normalized
		if norms[i].Confidence < g.threshold {
			label = strings.ToLower(strings.TrimSpace(variants[i]))
		}
		grp := EquivalenceGroup{Normalized: label, Members: []string{variants[i]}}
		for j := i + 1; j < len(variants); j++ {
			if !done[j] && equivalent(i, j) {
				done[j] = true
				grp.Members = append(grp.Members, variants[j])
			}
		}
		out = append(out, grp)
	}
	return out
}

// Overlap normalizes both collections into sets and compares them.
// Blank entries are ignored. Jaccard is 1 when both sets are empty;
// precision and recall are 0 when their denominator is.
func (g *Grouper) Overlap(predicted, reference []string) OverlapReport {
	pred := g.normalizedSet(predicted)
	ref := g.normalizedSet(reference)

	inter := 0
	for k := range pred {
		if _, ok := ref[k]; ok {
			inter++
		}
	}
	union := len(pred) + len(ref) - inter

	r := OverlapReport{
		IntersectionSize: inter,
		PredictedSize:    len(pred),
		ReferenceSize:    len(ref),
		UnionSize:        union,
		Jaccard:          1.0,
	}
	if union > 0 {
		r.Jaccard = float64(inter) / float64(union)
	}
	if r.PredictedSize > 0 {
		r.Precision = float64(inter) / float64(r.PredictedSize)
	}
	if r.ReferenceSize > 0 {
		r.Recall = float64(inter) / float64(r.ReferenceSize)
	}
	return r
}

// normalizedSet collects the normalized forms of the non-blank entries.
func (g *Grouper) normalizedSet(variants []string) map[string]struct{} {
	set := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if strings.TrimSpace(v) == "" {
			continue
		}
		set[g.normalizer.Normalize(v).Normalized] = struct{}{}
	}
	return set
}
