package workload

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// A Metric accumulates latency samples for one op category. Safe for
// concurrent recording.
type Metric struct {
	Count   uint64
	TotalNs uint64
}

// Record adds one sample.
func (m *Metric) Record(d time.Duration) {
	atomic.AddUint64(&m.Count, 1)
	atomic.AddUint64(&m.TotalNs, uint64(d.Nanoseconds()))
}

// Avg returns the mean latency, or zero with no samples.
func (m *Metric) Avg() time.Duration {
	count := atomic.LoadUint64(&m.Count)
	if count == 0 {
		return 0
	}
	return time.Duration(atomic.LoadUint64(&m.TotalNs) / count)
}

// A Report is the summary of one benchmark run.
type Report struct {
	Requests int
	Elapsed  time.Duration
	Failures uint64
	Get      Metric
	Set      Metric
	Del      Metric
}

// metric returns the accumulator for an op kind.
func (r *Report) metric(kind OpKind) *Metric {
	switch kind {
	case OpGet:
		return &r.Get
	case OpSet:
		return &r.Set
	default:
		return &r.Del
	}
}

// Print writes the run summary: total time, throughput, failures, and
// the mean latency per category that saw traffic.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "\nResults\n")
	fmt.Fprintf(w, "  Total time: %.3f s\n", r.Elapsed.Seconds())
	if r.Elapsed > 0 {
		fmt.Fprintf(w, "  Throughput: %.0f ops/s\n", float64(r.Requests)/r.Elapsed.Seconds())
	}
	fmt.Fprintf(w, "  Failures: %d\n", r.Failures)

	for _, kind := range []OpKind{OpGet, OpSet, OpDel} {
		m := r.metric(kind)
		if m.Count == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s avg: %.3f us (%d ops)\n",
			kind, float64(m.Avg().Nanoseconds())/1e3, m.Count)
	}
}
