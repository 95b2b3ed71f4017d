package group

import (
	"context"
	"fmt"
	"sync"
)

// Launch runs fn once per rank, each in its own goroutine, and blocks until
// every rank has returned. Unlike a task pool the workers here are not
// interchangeable: each goroutine carries a distinct rank for the whole run.
// The first non-nil error is returned; fn is expected to honor ctx so that a
// failing group unwinds instead of hanging on its collectives.
func Launch(ctx context.Context, size int, fn func(ctx context.Context, g Group) error) error {
	if size < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	results := make(chan error, size)

	var wg sync.WaitGroup
	wg.Add(size)
	for rank := 0; rank < size; rank++ {
		g := Group{Rank: rank, Size: size}
		go func() {
			defer wg.Done()
			results <- fn(ctx, g)
		}()
	}

	wg.Wait()
	close(results)

	var first error
	for err := range results {
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}
