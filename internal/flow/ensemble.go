package flow

import (
	"context"
	"sync"
)

// Ensemble runs one simulation per Reynolds number in parallel. Build must
// construct a fresh runner for each member so no lattice state is shared
// between goroutines.
type Ensemble struct {
	Build func(reynolds float64) (*Runner, error)
	Ticks int
}

// Run executes every member and returns their results in input order. The
// first construction or run error aborts the whole sweep.
func (e *Ensemble) Run(ctx context.Context, reynolds []float64) ([]*Result, error) {
	results := make([]*Result, len(reynolds))
	errs := make([]error, len(reynolds))

	var wg sync.WaitGroup
	for i, re := range reynolds {
		wg.Add(1)
		go func(i int, re float64) {
			defer wg.Done()

			r, err := e.Build(re)
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = r.Run(ctx, e.Ticks)
			if results[i] != nil {
				results[i].Reynolds = re
			}
		}(i, re)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
