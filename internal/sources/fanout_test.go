package sources

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFanOut_PreservesOrder(t *testing.T) {
	items := []int{5, 1, 3, 2, 4}

	results := fanOut(context.Background(), items, time.Second,
		func(ctx context.Context, n int) string {
			time.Sleep(time.Duration(n) * time.Millisecond)
			return fmt.Sprintf("item-%d", n)
		},
		func(n int, err error) string {
			return "timeout"
		},
	)

	assert.Equal(t, []string{"item-5", "item-1", "item-3", "item-2", "item-4"}, results)
}

func TestFanOut_TimeoutIsPerItem(t *testing.T) {
	items := []string{"fast", "slow", "fast-too"}

	start := time.Now()
	results := fanOut(context.Background(), items, 50*time.Millisecond,
		func(ctx context.Context, item string) string {
			if item == "slow" {
				<-ctx.Done()
				time.Sleep(time.Second)
				return "late"
			}
			return item + ":ok"
		},
		func(item string, err error) string {
			return item + ":" + err.Error()
		},
	)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, "fast:ok", results[0])
	assert.Equal(t, "slow:"+context.DeadlineExceeded.Error(), results[1])
	assert.Equal(t, "fast-too:ok", results[2])
}

func TestFanOut_Empty(t *testing.T) {
	results := fanOut(context.Background(), []string{}, time.Second,
		func(ctx context.Context, item string) string { return item },
		func(item string, err error) string { return "" },
	)

	assert.Empty(t, results)
}
