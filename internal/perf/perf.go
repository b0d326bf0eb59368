// Package perf collects iteration timings and counters, reporting them
// through the debug log. Collection is off unless REWATCH_PROFILE is set,
// so the hot path normally costs a single atomic load.
package perf

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyrewlee/rewatch/internal/logging"
)

const sampleWindow = 128

var (
	enabled     atomic.Bool
	logInterval atomic.Int64
	lastLog     atomic.Int64

	mu       sync.Mutex
	timings  = map[string]*timing{}
	counters = map[string]*int64{}
)

func init() {
	enabled.Store(envEnabled())
	logInterval.Store(int64(envInterval()))
}

// timing accumulates duration samples for one name. The ring holds the most
// recent samples for the p95 estimate; count and total cover everything.
type timing struct {
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
	ring  []time.Duration
	idx   int
	full  bool
}

type timingSnapshot struct {
	name  string
	count int64
	avg   time.Duration
	min   time.Duration
	max   time.Duration
	p95   time.Duration
}

type counterSnapshot struct {
	name  string
	value int64
}

// Enabled reports whether collection is active.
func Enabled() bool {
	return enabled.Load()
}

// Time starts a timer for name and returns the function that records it.
// Meant for defer: defer perf.Time("iteration")().
func Time(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() { Record(name, time.Since(start)) }
}

// Record adds one duration sample under name.
func Record(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	tm := timings[name]
	if tm == nil {
		tm = &timing{ring: make([]time.Duration, sampleWindow)}
		timings[name] = tm
	}
	tm.count++
	tm.total += d
	if tm.count == 1 || d < tm.min {
		tm.min = d
	}
	if d > tm.max {
		tm.max = d
	}
	tm.ring[tm.idx] = d
	tm.idx++
	if tm.idx == len(tm.ring) {
		tm.idx = 0
		tm.full = true
	}
	mu.Unlock()

	maybeReport()
}

// Count adds delta to a named counter.
func Count(name string, delta int64) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	v := counters[name]
	if v == nil {
		v = new(int64)
		counters[name] = v
	}
	*v += delta
	mu.Unlock()

	maybeReport()
}

// Flush reports and clears whatever has accumulated. The session calls it on
// shutdown so short runs still leave a summary in the log.
func Flush(reason string) {
	if !enabled.Load() {
		return
	}
	label := "PERF SUMMARY"
	if strings.TrimSpace(reason) != "" {
		label = fmt.Sprintf("PERF SUMMARY %s", reason)
	}
	report(label)
}

func maybeReport() {
	interval := time.Duration(logInterval.Load())
	if interval <= 0 {
		return
	}
	now := time.Now().UnixNano()
	last := lastLog.Load()
	if last != 0 && time.Duration(now-last) < interval {
		return
	}
	if !lastLog.CompareAndSwap(last, now) {
		return
	}
	report("PERF")
}

func report(label string) {
	stats, counts := drain()
	for _, s := range stats {
		logging.Info("%s %s count=%d avg=%s p95=%s min=%s max=%s",
			label, s.name, s.count, s.avg, s.p95, s.min, s.max)
	}
	for _, c := range counts {
		logging.Info("%s %s count=%d", label, c.name, c.value)
	}
}

// drain snapshots every nonzero timing and counter, then resets them.
func drain() ([]timingSnapshot, []counterSnapshot) {
	mu.Lock()
	defer mu.Unlock()

	stats := make([]timingSnapshot, 0, len(timings))
	for name, tm := range timings {
		if tm.count == 0 {
			continue
		}
		stats = append(stats, timingSnapshot{
			name:  name,
			count: tm.count,
			avg:   time.Duration(int64(tm.total) / tm.count),
			min:   tm.min,
			max:   tm.max,
			p95:   p95(tm.ring, tm.idx, tm.full),
		})
		tm.count, tm.total, tm.min, tm.max = 0, 0, 0, 0
		tm.idx, tm.full = 0, false
	}

	counts := make([]counterSnapshot, 0, len(counters))
	for name, v := range counters {
		if *v == 0 {
			continue
		}
		counts = append(counts, counterSnapshot{name: name, value: *v})
		*v = 0
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].name < stats[j].name })
	sort.Slice(counts, func(i, j int) bool { return counts[i].name < counts[j].name })
	return stats, counts
}

// p95 estimates the 95th percentile over the retained sample window.
func p95(ring []time.Duration, idx int, full bool) time.Duration {
	n := idx
	if full {
		n = len(ring)
	}
	if n == 0 {
		return 0
	}
	window := make([]time.Duration, n)
	copy(window, ring[:n])
	sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
	pos := int(math.Ceil(0.95*float64(n))) - 1
	if pos < 0 {
		pos = 0
	}
	return window[pos]
}

func envEnabled() bool {
	raw := strings.TrimSpace(os.Getenv("REWATCH_PROFILE"))
	if raw == "" {
		return false
	}
	switch strings.ToLower(raw) {
	case "0", "false", "no":
		return false
	}
	return true
}

func envInterval() time.Duration {
	if raw := strings.TrimSpace(os.Getenv("REWATCH_PROFILE_INTERVAL_MS")); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return 5 * time.Second
}
