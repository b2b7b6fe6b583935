package extract

import (
	"runtime"
	"sync"
)

// WorkItem is a corpus document queued for recognition. Seq numbers
// start at 0 and set the output order; Extra is passed through to the
// matching WorkResult untouched.
type WorkItem struct {
	Seq   int
	ID    string
	Text  string
	Extra any
}

// WorkResult carries the detailed mentions found in one WorkItem.
type WorkResult struct {
	Seq     int
	ID      string
	Matches []Match
	Err     error
	Extra   any
}

// ParallelRecognize fans items out to workers goroutines, each running
// RecognizeDetailed, and closes the returned channel once items is
// drained. Results arrive as workers finish them; pass the channel to
// OrderedCollect to restore document order. workers <= 0 means one per
// CPU.
func (e *Extractor) ParallelRecognize(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	out := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for it := range items {
				matches, err := e.RecognizeDetailed(it.Text)
				out <- WorkResult{Seq: it.Seq, ID: it.ID, Matches: matches, Err: err, Extra: it.Extra}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// OrderedCollect hands results to fn by ascending Seq, holding back any
// result whose predecessors have not arrived yet. It returns when
// results is closed or fn fails; on failure the rest of results is
// discarded so the workers can exit.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	held := make(map[int]WorkResult)
	next := 0
	for r := range results {
		held[r.Seq] = r
		for {
			ready, ok := held[next]
			if !ok {
				break
			}
			delete(held, next)
			next++
			if err := fn(ready); err != nil {
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
