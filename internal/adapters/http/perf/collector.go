// Package perf keeps a bounded in-memory record of page, remote API and
// storage timings for the health report.
package perf

import (
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRingSize is the default number of retained samples.
const DefaultRingSize = 4096

// Kind distinguishes what was timed.
type Kind uint8

const (
	KindPage Kind = iota
	KindAPICall
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindPage:
		return "page"
	case KindAPICall:
		return "api_call"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// Sample is one timing record.
type Sample struct {
	Kind       Kind
	Label      string // "GET /events", remote op name or store.method
	Status     int    // HTTP status for pages and API calls; 0 for queries
	DurationMs float64
	At         time.Time
}

// Collector is a fixed-size ring of samples. Once full, the oldest sample is overwritten.
type Collector struct {
	mu      sync.Mutex
	samples []Sample
	next    int
	total   atomic.Int64
}

// NewCollector creates a collector retaining up to size samples.
// PRE: size > 0, otherwise DefaultRingSize is used
func NewCollector(size int) *Collector {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &Collector{samples: make([]Sample, size)}
}

// Record stores s. Safe for concurrent use; a nil collector ignores the call.
func (c *Collector) Record(s Sample) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.samples[c.next] = s
	c.next = (c.next + 1) % len(c.samples)
	c.mu.Unlock()
	c.total.Add(1)
}

// Total returns the number of samples ever recorded.
func (c *Collector) Total() int64 {
	if c == nil {
		return 0
	}
	return c.total.Load()
}

// LabelStat aggregates samples sharing a label.
type LabelStat struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	AvgMs  float64 `json:"avg_ms"`
	MaxMs  float64 `json:"max_ms"`
	Errors int     `json:"errors"`
}

// KindReport summarises one kind of sample.
type KindReport struct {
	Count   int         `json:"count"`
	P50Ms   float64     `json:"p50_ms"`
	P95Ms   float64     `json:"p95_ms"`
	Slowest []LabelStat `json:"slowest"`
}

// Report is the aggregated view of retained samples.
type Report struct {
	Recorded int64                 `json:"recorded"`
	Kinds    map[string]KindReport `json:"kinds"`
}

// Report aggregates retained samples newer than since. topN bounds each Slowest list.
func (c *Collector) Report(since time.Time, topN int) Report {
	c.mu.Lock()
	buf := slices.Clone(c.samples)
	c.mu.Unlock()

	durations := map[Kind][]float64{}
	stats := map[Kind]map[string]*LabelStat{}
	for _, s := range buf {
		if s.At.IsZero() || s.At.Before(since) {
			continue
		}
		durations[s.Kind] = append(durations[s.Kind], s.DurationMs)
		byLabel, ok := stats[s.Kind]
		if !ok {
			byLabel = map[string]*LabelStat{}
			stats[s.Kind] = byLabel
		}
		st, ok := byLabel[s.Label]
		if !ok {
			st = &LabelStat{Label: s.Label}
			byLabel[s.Label] = st
		}
		st.Count++
		st.AvgMs += s.DurationMs
		st.MaxMs = math.Max(st.MaxMs, s.DurationMs)
		if (s.Kind == KindAPICall && s.Status == 0) || s.Status >= 400 {
			st.Errors++
		}
	}

	rep := Report{Recorded: c.Total(), Kinds: map[string]KindReport{}}
	for kind, ds := range durations {
		slices.Sort(ds)
		list := make([]LabelStat, 0, len(stats[kind]))
		for _, st := range stats[kind] {
			st.AvgMs /= float64(st.Count)
			list = append(list, *st)
		}
		slices.SortFunc(list, func(a, b LabelStat) int {
			switch {
			case a.AvgMs > b.AvgMs:
				return -1
			case a.AvgMs < b.AvgMs:
				return 1
			}
			return 0
		})
		if len(list) > topN {
			list = list[:topN]
		}
		rep.Kinds[kind.String()] = KindReport{
			Count:   len(ds),
			P50Ms:   percentile(ds, 50),
			P95Ms:   percentile(ds, 95),
			Slowest: list,
		}
	}
	return rep
}

// percentile interpolates the p-th percentile of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := p / 100 * float64(len(sorted)-1)
	lo, hi := int(math.Floor(idx)), int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
