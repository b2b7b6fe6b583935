package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-varnorm/internal/equiv"
)

func TestClassify(t *testing.T) {
	g := equiv.New(0)
	predicted := []string{"p.V600E", "c.677C>T", "rs999", " "}
	reference := []string{"V600E", "c.677C>T", "rs1234", "MTHFR:c.677C>T"}

	got := Classify(g, predicted, reference)
	require.Len(t, got, 4)

	assert.Equal(t, Comparison{Predicted: "p.V600E", Reference: "V600E", Canonical: "p.V600E", Category: CatNormalizedMatch}, got[0])
	assert.Equal(t, Comparison{Predicted: "c.677C>T", Reference: "c.677C>T", Canonical: "c.677C>T", Category: CatMatch}, got[1])
	assert.Equal(t, CatPredictedOnly, got[2].Category)
	assert.Equal(t, "rs999", got[2].Predicted)
	// MTHFR:c.677C>T shares a canonical form with a matched reference.
	assert.Equal(t, Comparison{Reference: "rs1234", Canonical: "rs1234", Category: CatReferenceOnly}, got[3])
}

func TestClassify_Empty(t *testing.T) {
	assert.Empty(t, Classify(equiv.New(0), nil, nil))
}

func TestCompareWriter(t *testing.T) {
	var buf bytes.Buffer
	c := NewCompareWriter(&buf, equiv.New(0), false)

	require.NoError(t, c.WriteHeader())
	require.NoError(t, c.WriteComparison(
		[]string{"c.677C>T", "p.Val600Glu", "rs1"},
		[]string{"c.677C>T", "V600E", "rs2"},
	))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// Header plus every row except the literal match.
	require.Len(t, lines, 4)
	assert.Equal(t, "Predicted\tReference\tNormalized\tCategory", lines[0])
	assert.Equal(t, "p.Val600Glu\tV600E\tp.V600E\tnormalized_match", lines[1])
	assert.Equal(t, "rs1\t-\trs1\tpredicted_only", lines[2])
	assert.Equal(t, "-\trs2\trs2\treference_only", lines[3])

	assert.Equal(t, 4, c.Total())
	assert.Equal(t, map[Category]int{
		CatMatch: 1, CatNormalizedMatch: 1, CatPredictedOnly: 1, CatReferenceOnly: 1,
	}, c.Counts())

	r := c.Overlap()
	assert.Equal(t, 2, r.IntersectionSize)
	assert.Equal(t, 4, r.UnionSize)
	assert.InDelta(t, 0.5, r.Jaccard, 1e-9)

	var summary bytes.Buffer
	c.WriteSummary(&summary)
	assert.Contains(t, summary.String(), "Comparison Summary (4 variants)")
	assert.Contains(t, summary.String(), "normalized_match")
	assert.Contains(t, summary.String(), "0.500")
}

func TestCompareWriter_ShowAll(t *testing.T) {
	var buf bytes.Buffer
	c := NewCompareWriter(&buf, equiv.New(0), true)

	require.NoError(t, c.WriteComparison([]string{"rs1"}, []string{"RS1"}))
	assert.Equal(t, "rs1\tRS1\trs1\tmatch\n", buf.String())
}
