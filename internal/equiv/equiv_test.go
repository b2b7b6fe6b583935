package equiv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultThreshold(t *testing.T) {
	assert.Equal(t, DefaultThreshold, New(0).Threshold())
	assert.Equal(t, DefaultThreshold, New(-1).Threshold())
	assert.Equal(t, 0.9, New(0.9).Threshold())
}

func TestAreEquivalent(t *testing.T) {
	g := New(0)

	tests := []struct {
		a, b string
		want bool
	}{
		{"p.Val600Glu", "V600E", true},
		{"p.Val600Glu", "p.(V600E)", true},
		{"c.123A>G", "c.123a>g", true},
		{"MTHFR:c.677C>T", "c.677C>T", true},
		{"chr12:25245350:C:A", "12-25245350-C-A", true},
		{"p.Arg97ProfsTer23", "p.R97fs", true},
		{"rs123", "RS123", true},
		{"rs123", "rs124", false},
		{"p.V600E", "p.V600K", false},
		{"c.123A>G", "g.123A>G", false},
		// Low confidence falls back to literal comparison.
		{"Some Gene Fusion", "some gene fusion", true},
		{"Some Gene Fusion", "other", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.AreEquivalent(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestAreEquivalent_CaseInvariant(t *testing.T) {
	g := New(0)
	for _, s := range []string{"p.Val600Glu", "c.123A>G", "rs99", "chr7:140753336A>T", "del(15)(q11.2q13.1)", "r.76a>c"} {
		assert.True(t, g.AreEquivalent(s, strings.ToUpper(s)), s)
	}
}

func TestAreEquivalent_HighThresholdUsesLiteral(t *testing.T) {
	g := New(0.99)
	// Both normalize to p.V600E but only with confidence 0.95.
	assert.False(t, g.AreEquivalent("p.Val600Glu", "V600E"))
	assert.True(t, g.AreEquivalent("rs1", "RS1"))
}

func TestGroup(t *testing.T) {
	g := New(0)

	groups := g.Group([]string{"V600E", "c.123A>G", "p.Val600Glu", "rs1", "c.123a>g", "p.(V600E)", "unknown thing"})
	assert.Equal(t, [][]string{
		{"V600E", "p.Val600Glu", "p.(V600E)"},
		{"c.123A>G", "c.123a>g"},
		{"rs1"},
		{"unknown thing"},
	}, groups)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, New(0).Group(nil))
}

func TestClasses(t *testing.T) {
	classes := New(0).Classes([]string{"p.Val600Glu", "V600E", "Foo Bar", "foo bar"})
	require.Len(t, classes, 2)
	assert.Equal(t, "p.V600E", classes[0].Normalized)
	assert.Equal(t, []string{"p.Val600Glu", "V600E"}, classes[0].Members)
	assert.Equal(t, "foo bar", classes[1].Normalized)
	assert.Equal(t, []string{"Foo Bar", "foo bar"}, classes[1].Members)
}

func TestOverlap(t *testing.T) {
	g := New(0)

	r := g.Overlap([]string{"c.123A>G", "c.123a>g"}, []string{"c.123A>G"})
	assert.Equal(t, 1, r.IntersectionSize)
	assert.Equal(t, 1, r.PredictedSize)
	assert.Equal(t, 1, r.ReferenceSize)
	assert.Equal(t, 1, r.UnionSize)
	assert.Equal(t, 1.0, r.Jaccard)
	assert.Equal(t, 1.0, r.Precision)
	assert.Equal(t, 1.0, r.Recall)
}

func TestOverlap_Partial(t *testing.T) {
	g := New(0)

	r := g.Overlap(
		[]string{"p.Val600Glu", "rs1", "c.1A>G", ""},
		[]string{"V600E", "rs2", "  "},
	)
	assert.Equal(t, 1, r.IntersectionSize)
	assert.Equal(t, 3, r.PredictedSize)
	assert.Equal(t, 2, r.ReferenceSize)
	assert.Equal(t, 4, r.UnionSize)
	assert.InDelta(t, 0.25, r.Jaccard, 1e-9)
	assert.InDelta(t, 1.0/3, r.Precision, 1e-9)
	assert.InDelta(t, 0.5, r.Recall, 1e-9)
}

func TestOverlap_Empty(t *testing.T) {
	r := New(0).Overlap(nil, nil)
	assert.Equal(t, 0, r.IntersectionSize)
	assert.Equal(t, 1.0, r.Jaccard)
	assert.Equal(t, 0.0, r.Precision)
	assert.Equal(t, 0.0, r.Recall)

	r = New(0).Overlap([]string{"rs1"}, nil)
	assert.Equal(t, 0.0, r.Jaccard)
	assert.Equal(t, 0.0, r.Recall)
}

func TestCanonical(t *testing.T) {
	g := New(0)
	assert.Equal(t, "p.V600E", g.Canonical("BRAF p.Val600Glu"))
	assert.Equal(t, "c.677C>T", g.Canonical(" MTHFR:c.677c>t "))
	assert.Equal(t, "foo-1 fusion", g.Canonical(" FOO-1 Fusion "))

	strict := New(0.99)
	assert.Equal(t, "v600e", strict.Canonical("V600E"))
	assert.Equal(t, "rs1", strict.Canonical("RS1"))
}
