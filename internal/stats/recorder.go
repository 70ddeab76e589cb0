// Package stats aggregates call latencies for repeated CLI calls.
package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// Latencies are tracked in microseconds from 1µs to 1 hour with three
	// significant figures.
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Recorder collects call latencies in an HDR histogram.
//
// Recorder is safe for concurrent use.
type Recorder struct {
	hist   *hdrhistogram.Histogram
	histMu sync.Mutex

	total  atomic.Int64
	failed atomic.Int64
}

// Summary is a point-in-time view of a Recorder.
type Summary struct {
	Count  int64         `json:"count" yaml:"count"`
	Failed int64         `json:"failed" yaml:"failed"`
	Min    time.Duration `json:"min" yaml:"min"`
	Mean   time.Duration `json:"mean" yaml:"mean"`
	P50    time.Duration `json:"p50" yaml:"p50"`
	P90    time.Duration `json:"p90" yaml:"p90"`
	P99    time.Duration `json:"p99" yaml:"p99"`
	Max    time.Duration `json:"max" yaml:"max"`
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
}

// Record adds one call. Latencies outside the tracked range are clamped.
func (r *Recorder) Record(latency time.Duration, success bool) {
	micros := latency.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}

	// RecordValue is not safe for concurrent use.
	r.histMu.Lock()
	r.hist.RecordValue(micros)
	r.histMu.Unlock()

	r.total.Add(1)
	if !success {
		r.failed.Add(1)
	}
}

// Summary returns the current latency distribution.
// An empty Recorder yields a zero Summary.
func (r *Recorder) Summary() Summary {
	s := Summary{
		Count:  r.total.Load(),
		Failed: r.failed.Load(),
	}
	if s.Count == 0 {
		return s
	}

	r.histMu.Lock()
	defer r.histMu.Unlock()

	s.Min = micros(r.hist.Min())
	s.Max = micros(r.hist.Max())
	s.Mean = time.Duration(r.hist.Mean() * float64(time.Microsecond))
	s.P50 = micros(r.hist.ValueAtQuantile(50))
	s.P90 = micros(r.hist.ValueAtQuantile(90))
	s.P99 = micros(r.hist.ValueAtQuantile(99))
	return s
}

// Reset clears all recorded calls.
func (r *Recorder) Reset() {
	r.histMu.Lock()
	r.hist.Reset()
	r.histMu.Unlock()
	r.total.Store(0)
	r.failed.Store(0)
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
