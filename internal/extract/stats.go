package extract

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	at       time.Time
	duration time.Duration
}

// LatencySnapshot aggregates one backend's call latencies inside the window.
type LatencySnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Stats tracks backend call latencies per backend name within a rolling
// window.
type Stats struct {
	mu      sync.Mutex
	window  time.Duration
	samples map[string][]sample
	now     func() time.Time
}

func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		window:  window,
		samples: make(map[string][]sample),
		now:     time.Now,
	}
}

// Record adds one call duration for backend.
func (s *Stats) Record(backend string, d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	kept := prune(s.samples[backend], now.Add(-s.window))
	s.samples[backend] = append(kept, sample{at: now, duration: d})
}

// Snapshot returns the aggregate for every backend with samples in the
// window.
func (s *Stats) Snapshot() map[string]LatencySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.window)
	out := make(map[string]LatencySnapshot, len(s.samples))
	for name, samples := range s.samples {
		samples = prune(samples, cutoff)
		if len(samples) == 0 {
			delete(s.samples, name)
			continue
		}
		s.samples[name] = samples
		out[name] = summarize(samples)
	}
	return out
}

// Window is the rolling window length.
func (s *Stats) Window() time.Duration { return s.window }

func prune(samples []sample, cutoff time.Time) []sample {
	n := 0
	for _, sm := range samples {
		if !sm.at.Before(cutoff) {
			samples[n] = sm
			n++
		}
	}
	return samples[:n]
}

func summarize(samples []sample) LatencySnapshot {
	values := make([]int64, 0, len(samples))
	var sum int64
	for _, sm := range samples {
		ms := sm.duration.Milliseconds()
		values = append(values, ms)
		sum += ms
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return LatencySnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	index := float64(len(sorted)-1) * pct / 100.0
	lower := int(index)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*weight
}
