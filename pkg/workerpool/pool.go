// Package workerpool provides the bounded worker pool used to parallelize
// the per-pair work of candidate scoring and similarity matching.
package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Common errors
var (
	ErrInvalidSize = errors.New("workerpool: invalid pool size")
)

// Task is one unit of work, identified by its enumeration index so that
// callers can aggregate results deterministically regardless of the order
// workers finish in.
type Task func(ctx context.Context, index int) error

// Config holds pool configuration
type Config struct {
	// Size is the number of workers; 0 means GOMAXPROCS
	Size int
}

// Pool runs indexed tasks over a fixed set of workers
type Pool struct {
	size int
}

// New creates a pool
func New(config Config) (*Pool, error) {
	if config.Size < 0 {
		return nil, ErrInvalidSize
	}
	size := config.Size
	if size == 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{size: size}, nil
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return p.size
}

// ForEach runs fn for every index in [0, n) across the pool's workers and
// blocks until all complete. The first error (or context cancellation)
// stops the dispatch of further indices; in-flight tasks still finish.
func (p *Pool) ForEach(ctx context.Context, n int, fn Task) error {
	if n <= 0 {
		return nil
	}
	workers := p.size
	if workers > n {
		workers = n
	}

	indices := make(chan int)
	errCh := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				if err := fn(ctx, i); err != nil {
					errCh <- err
					return
				}
			}
		}()
	}

	var dispatchErr error
dispatch:
	for i := 0; i < n; i++ {
		select {
		case indices <- i:
		case err := <-errCh:
			dispatchErr = err
			break dispatch
		case <-ctx.Done():
			dispatchErr = ctx.Err()
			break dispatch
		}
	}
	close(indices)
	wg.Wait()

	if dispatchErr != nil {
		return dispatchErr
	}
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
