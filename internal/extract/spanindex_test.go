package extract

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func spans(pairs ...[2]int) []Candidate {
	out := make([]Candidate, len(pairs))
	for i, p := range pairs {
		out[i] = Candidate{Start: p[0], End: p[1]}
	}
	return out
}

func sorted(ids []int) []int {
	sort.Ints(ids)
	return ids
}

func TestBuildSpanIndex_Empty(t *testing.T) {
	x := buildSpanIndex(nil)
	assert.Empty(t, x.overlapping(0, 10))
}

func TestSpanIndex_HalfOpen(t *testing.T) {
	x := buildSpanIndex(spans([2]int{10, 20}))

	assert.Equal(t, []int{0}, x.overlapping(15, 16))
	assert.Equal(t, []int{0}, x.overlapping(0, 11), "touches first byte")
	assert.Empty(t, x.overlapping(0, 10), "ends where span starts")
	assert.Empty(t, x.overlapping(20, 30), "starts where span ends")
	assert.Empty(t, x.overlapping(12, 12), "empty query")
}

func TestSpanIndex_LongSpanBeforeShortOnes(t *testing.T) {
	// The long first span must not be pruned by the short ones after it.
	x := buildSpanIndex(spans([2]int{0, 100}, [2]int{10, 20}, [2]int{30, 40}))

	assert.Equal(t, []int{0}, x.overlapping(50, 60))
	assert.Equal(t, []int{0, 1}, sorted(x.overlapping(15, 25)))
	assert.Equal(t, []int{0, 1, 2}, sorted(x.overlapping(5, 35)))
}

func TestSpanIndex_NonOverlapping(t *testing.T) {
	x := buildSpanIndex(spans([2]int{0, 5}, [2]int{10, 15}, [2]int{20, 25}))

	assert.Equal(t, []int{1}, x.overlapping(12, 13))
	assert.Empty(t, x.overlapping(5, 10))
	assert.Empty(t, x.overlapping(26, 40))
}
