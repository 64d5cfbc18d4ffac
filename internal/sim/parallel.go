package sim

import (
	"context"
	"fmt"
	"sync"
)

// Builder constructs an independent runner. Each batch member gets its own
// flight and world, so nothing is shared between goroutines.
type Builder func() (*Runner, error)

func RunBatch(ctx context.Context, builders []Builder) ([]*Result, error) {
	results := make([]*Result, len(builders))
	errs := make([]error, len(builders))

	var wg sync.WaitGroup
	for i, build := range builders {
		wg.Add(1)
		go func(idx int, build Builder) {
			defer wg.Done()

			r, err := build()
			if err != nil {
				errs[idx] = fmt.Errorf("flight %d: %w", idx, err)
				return
			}
			results[idx], errs[idx] = r.Run(ctx)
		}(i, build)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
