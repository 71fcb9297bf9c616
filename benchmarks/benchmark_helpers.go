package benchmarks

import (
	"math"
	"slices"
	"time"

	"github.com/threadctl/threadpool/anyval"
	"github.com/threadctl/threadpool/pool"
)

// poolConfig is one benchmarked configuration of the pool.
type poolConfig struct {
	name    string
	workers int
	opts    []pool.Option
}

// modeConfigs compares the two scaling policies from the same initial size.
func modeConfigs(workers int) []poolConfig {
	return []poolConfig{
		{
			name:    "Fixed",
			workers: workers,
			opts:    []pool.Option{pool.WithMode(pool.ModeFixed)},
		},
		{
			name:    "Cached",
			workers: workers,
			opts: []pool.Option{
				pool.WithMode(pool.ModeCached),
				pool.WithMaxWorkers(workers * 8),
			},
		},
	}
}

// =============================================================================
// Benchmark Workload Generators
// =============================================================================

// cpuBoundTask burns iterations of integer work.
func cpuBoundTask(iterations, seed int) pool.TaskFunc {
	return func() anyval.Value {
		result := 0
		for i := range iterations {
			result += i * seed
		}
		return anyval.New(result)
	}
}

// ioBoundTask parks for delay, standing in for a blocking call.
func ioBoundTask(delay time.Duration) pool.TaskFunc {
	return func() anyval.Value {
		time.Sleep(delay)
		return anyval.New(true)
	}
}

// mixedTask blends a short variable sleep with a burst of computation.
func mixedTask(seed int) pool.TaskFunc {
	return func() anyval.Value {
		time.Sleep(time.Duration(seed%10) * time.Millisecond)

		result := 0
		for i := range 1000 {
			result += i
		}
		return anyval.New(result + seed)
	}
}

// percentile picks by the nearest-rank method.
func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	index := max(int(math.Round(p*float64(len(sorted)-1))), 0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
