// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mkeene/listing-engine/pkg/types"
)

// BatchResult holds the outcome of a batch enrichment run.
type BatchResult struct {
	Enriched  int
	Unmatched int
	Failed    int
}

// Total returns the number of listings processed.
func (r BatchResult) Total() int {
	return r.Enriched + r.Unmatched + r.Failed
}

// HasFailures reports whether any listings failed outright.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// EnrichBatch enriches the given listings with a bounded worker pool,
// printing per-item status to w. Listings are independent, so order of
// completion is unspecified; the summary is deterministic. Unmatched
// listings are counted separately and do not fail the batch.
func (e *Engine) EnrichBatch(ctx context.Context, rawListingIDs []int64, w io.Writer) BatchResult {
	type itemResult struct {
		id  int64
		err error
	}

	jobs := make(chan int64)
	out := make(chan itemResult, len(rawListingIDs))
	var wg sync.WaitGroup

	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				_, err := e.Enrich(ctx, id)
				out <- itemResult{id: id, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, id := range rawListingIDs {
			select {
			case jobs <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	var result BatchResult
	for item := range out {
		switch {
		case item.err == nil:
			fmt.Fprintf(w, "enriched %d\n", item.id)
			result.Enriched++
		case errors.Is(item.err, types.ErrUnmatched):
			fmt.Fprintf(w, "unmatched %d\n", item.id)
			result.Unmatched++
		default:
			fmt.Fprintf(w, "failed %d: %v\n", item.id, item.err)
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d enriched, %d unmatched, %d failed (total: %d)\n",
		result.Enriched, result.Unmatched, result.Failed, result.Total())
	return result
}
