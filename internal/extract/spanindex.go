package extract

import "sort"

// spanIndex answers "which candidates overlap [start, end)" in
// O(log n + k) using a sorted-slice approach. Built once per text and
// never modified.
type spanIndex struct {
	spans  []span
	maxEnd []int // maxEnd[i] = max(end) for spans[:i+1]
}

type span struct {
	start int
	end   int
	id    int // index into the candidate slice
}

// buildSpanIndex creates a span index over cands.
func buildSpanIndex(cands []Candidate) *spanIndex {
	if len(cands) == 0 {
		return &spanIndex{}
	}

	spans := make([]span, len(cands))
	for i, c := range cands {
		spans[i] = span{start: c.Start, end: c.End, id: i}
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].start < spans[j].start
	})

	// Prefix-max array: maxEnd[i] = max(end) for spans[:i+1]
	maxEnd := make([]int, len(spans))
	maxEnd[0] = spans[0].end
	for i := 1; i < len(spans); i++ {
		maxEnd[i] = spans[i].end
		if maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	return &spanIndex{spans: spans, maxEnd: maxEnd}
}

// overlapping returns the ids of all spans intersecting [start, end).
func (x *spanIndex) overlapping(start, end int) []int {
	if len(x.spans) == 0 || start >= end {
		return nil
	}

	var result []int

	// Candidates must have start < end; hi is the first index past them.
	hi := sort.Search(len(x.spans), func(i int) bool {
		return x.spans[i].start >= end
	})

	for i := hi - 1; i >= 0; i-- {
		// Prune: nothing in spans[:i+1] reaches past start.
		if x.maxEnd[i] <= start {
			break
		}
		if x.spans[i].end > start {
			result = append(result, x.spans[i].id)
		}
	}

	return result
}
