package sources

import (
	"context"
	"sync"
	"time"
)

// fanOut runs fn for every item concurrently and returns results in input order.
// Each call gets its own context bounded by timeout; when that context ends
// before fn returns, onDone supplies the result for that item instead.
// It does not limit the number of concurrent goroutines.
func fanOut[T, R any](
	ctx context.Context,
	items []T,
	timeout time.Duration,
	fn func(ctx context.Context, item T) R,
	onDone func(item T, err error) R,
) []R {
	type indexed struct {
		index  int
		result R
	}

	results := make([]R, len(items))
	resultsChan := make(chan indexed, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()

			itemCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			tempChan := make(chan R, 1)
			go func() {
				tempChan <- fn(itemCtx, item)
			}()

			select {
			case res := <-tempChan:
				resultsChan <- indexed{index: i, result: res}
			case <-itemCtx.Done():
				resultsChan <- indexed{index: i, result: onDone(item, itemCtx.Err())}
			}
		}(i, item)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for entry := range resultsChan {
		results[entry.index] = entry.result
	}
	return results
}
