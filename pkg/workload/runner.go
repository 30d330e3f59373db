package workload

import (
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// A Runner drives a generated workload against an Execer, timing each
// op by category. One worker keeps the benchmark strictly serial; more
// workers fan the same generated sequence out over concurrent
// connections, which requires a concurrency-safe Execer.
type Runner struct {
	gen     *Generator
	workers int
}

// NewRunner returns a runner with the given fan-out. workers below 1 is
// treated as 1.
func NewRunner(gen *Generator, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{gen: gen, workers: workers}
}

// Run issues the given number of ops against exec and returns the
// filled report. Op failures are counted, not fatal; the run always
// completes.
func (r *Runner) Run(requests int, exec Execer) *Report {
	report := &Report{Requests: requests}
	ops := make(chan Op)

	start := time.Now()
	var group errgroup.Group
	for w := 0; w < r.workers; w++ {
		group.Go(func() error {
			for op := range ops {
				m := report.metric(op.Kind)
				t0 := time.Now()
				err := exec.Do(op)
				m.Record(time.Since(t0))
				if err != nil {
					atomic.AddUint64(&report.Failures, 1)
				}
			}
			return nil
		})
	}

	for i := 0; i < requests; i++ {
		ops <- r.gen.Next()
	}
	close(ops)
	group.Wait()

	report.Elapsed = time.Since(start)
	return report
}

// Populate warms the keyspace with one set per key so the mixed phase's
// gets have a hit rate. Runs serially, before timing starts; returns
// the number of failed sets.
func Populate(keyspace int, exec Execer) uint64 {
	var failures uint64
	for i := 0; i < keyspace; i++ {
		if err := exec.Do(PopulateOp(i)); err != nil {
			failures++
		}
	}
	return failures
}
