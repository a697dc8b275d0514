// Package metrics is a small in-process collector for operation counters
// and latencies, exposed as a JSON snapshot.
package metrics

import (
	"sync"
	"time"
)

type Collector struct {
	mu        sync.RWMutex
	counters  map[string]int64
	latencies map[string][]time.Duration
}

func NewCollector() *Collector {
	return &Collector{
		counters:  make(map[string]int64),
		latencies: make(map[string][]time.Duration),
	}
}

func (c *Collector) Increment(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

func (c *Collector) Observe(name string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latencies[name] = append(c.latencies[name], d)
}

// Timed runs fn and records both a counter and a latency sample for name.
func (c *Collector) Timed(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	c.Observe(name, time.Since(start))
	if err != nil {
		c.Increment(name + ".error")
	} else {
		c.Increment(name)
	}
	return err
}

// Snapshot is a point-in-time view of all recorded metrics.
type Snapshot struct {
	Counters  map[string]int64   `json:"counters"`
	LatencyMS map[string]Latency `json:"latency_ms"`
}

type Latency struct {
	Count int     `json:"count"`
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
}

func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		Counters:  make(map[string]int64, len(c.counters)),
		LatencyMS: make(map[string]Latency, len(c.latencies)),
	}
	for name, count := range c.counters {
		snap.Counters[name] = count
	}
	for name, samples := range c.latencies {
		var total, max time.Duration
		for _, d := range samples {
			total += d
			if d > max {
				max = d
			}
		}
		avg := 0.0
		if len(samples) > 0 {
			avg = float64(total.Milliseconds()) / float64(len(samples))
		}
		snap.LatencyMS[name] = Latency{Count: len(samples), Avg: avg, Max: float64(max.Milliseconds())}
	}
	return snap
}
