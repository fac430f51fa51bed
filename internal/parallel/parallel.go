// Package parallel runs independent per-item work across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 1,
	}
}

// WithWorkers returns the default config limited to n workers.
// n <= 0 keeps the CPU count and n == 1 disables parallelism.
func WithWorkers(n int) Config {
	cfg := DefaultConfig()
	if n > 0 {
		cfg.NumWorkers = n
		cfg.Enabled = n > 1
	}
	return cfg
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*max(cfg.MinChunkSize, 1) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// Map computes f(i) for i in [0, n) and returns the results in index order.
// All items run even when some fail; the error of the lowest failing index
// is returned.
func Map[R any](n int, f func(i int) (R, error), cfg Config) ([]R, error) {
	results := make([]R, n)
	errs := make([]error, n)
	For(n, func(i int) {
		results[i], errs[i] = f(i)
	}, cfg)
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
