package export

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// runBatches fetches items in consecutive batches of batchSize. All fetches
// of a batch run concurrently and the whole batch settles before the next one
// starts, which caps both outbound connections and resident response bodies
// at batchSize. Each goroutine writes to its own outcome slot, so no lock is
// needed, and outcomes come back in original item order no matter when the
// individual fetches complete.
func runBatches(ctx context.Context, logger *zap.Logger, items []Item, batchSize int, fetch func(context.Context, Item) Outcome) []Outcome {
	if batchSize < 1 {
		batchSize = 1
	}

	outcomes := make([]Outcome, len(items))

	for start := 0; start < len(items); start += batchSize {
		if ctx.Err() != nil {
			// Deadline or cancellation between batches: mark everything
			// still pending instead of dispatching it.
			for i := start; i < len(items); i++ {
				outcomes[i] = Outcome{
					Index:    items[i].Index,
					PhotoID:  items[i].Photo.ID,
					FileName: items[i].FileName,
					Err:      ctx.Err(),
				}
			}
			break
		}

		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]
		batchStart := time.Now()

		var wg sync.WaitGroup
		for i := range batch {
			wg.Add(1)
			go func(slot int, item Item) {
				defer wg.Done()
				outcomes[slot] = fetch(ctx, item)
			}(start+i, batch[i])
		}
		wg.Wait()

		ok := 0
		for _, out := range outcomes[start:end] {
			if out.OK() {
				ok++
			}
		}
		logger.Debug("Export batch settled",
			zap.Int("batch_start", start),
			zap.Int("batch_size", len(batch)),
			zap.Int("succeeded", ok),
			zap.Duration("elapsed", time.Since(batchStart)),
		)
	}

	return outcomes
}
