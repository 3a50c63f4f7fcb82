package batch

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/smartflow-ai/smartflow/internal/model"
	"github.com/smartflow-ai/smartflow/internal/roi"
)

// Result is the outcome for one entry. Exactly one of Projection and Err is set.
type Result struct {
	Entry      Entry
	Projection *model.Projection
	Err        error
}

// ProgressFunc is called as entries finish.
// current is the number processed so far, total is the entry count.
type ProgressFunc func(current, total int)

// Run projects every entry with a bounded worker pool. Entries without a
// plan use defaultPlan. Results keep input order.
func Run(entries []Entry, cat roi.Catalog, defaultPlan string, progressFn ProgressFunc) []Result {
	results := make([]Result, len(entries))
	if len(entries) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(entries) {
		numWorkers = len(entries)
	}

	work := make(chan int, len(entries))
	for i := range entries {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var processed atomic.Int64

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = project(entries[idx], cat, defaultPlan)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(entries))
				}
			}
		}()
	}
	wg.Wait()

	return results
}

func project(e Entry, cat roi.Catalog, defaultPlan string) Result {
	plan := e.Plan
	if plan == "" {
		plan = defaultPlan
	}
	proj, err := roi.Compute(e.Profile, plan, cat)
	if err != nil {
		return Result{Entry: e, Err: err}
	}
	return Result{Entry: e, Projection: &proj}
}

// Summary aggregates a batch.
type Summary struct {
	Total     int
	Projected int
	Rejected  int
	// By validation code, e.g. INVALID_REVENUE.
	RejectedBy map[roi.ErrorCode]int

	TotalMonthlyValue float64
	TotalNetROI       float64
	// Indeterminate counts projections with no payback period.
	Indeterminate int

	// Best is the projected entry with the highest net ROI; nil if none.
	Best *Result
}

// Summarize aggregates results. Sums use unrounded values.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), RejectedBy: make(map[roi.ErrorCode]int)}
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			s.Rejected++
			if ve, ok := roi.AsValidation(r.Err); ok {
				s.RejectedBy[ve.Code]++
			}
			continue
		}
		p := r.Projection
		s.Projected++
		s.TotalMonthlyValue += p.Raw.TotalValue
		s.TotalNetROI += p.Raw.NetROI
		if p.PaybackIndeterminate() {
			s.Indeterminate++
		}
		if s.Best == nil || p.Raw.NetROI > s.Best.Projection.Raw.NetROI {
			s.Best = r
		}
	}
	return s
}
