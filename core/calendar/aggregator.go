package calendar

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tmukana/uongozi/core"
)

// Aggregator runs every registered source for a month window and merges the
// results into one list sorted ascending by date. Aggregation as a whole
// never fails: a broken source is logged and contributes an empty slice, so
// the other sources still render.
type Aggregator struct {
	sources []Source
	logger  core.Logger
}

func NewAggregator(logger core.Logger, sources ...Source) *Aggregator {
	return &Aggregator{sources: sources, logger: logger}
}

// MonthEvents fans out to all sources concurrently and fans the results back
// in once every source has settled. Ties on equal timestamps keep source
// registration order (stable sort over per-source result slots).
func (agg *Aggregator) MonthEvents(ctx context.Context, win MonthWindow) []Event {
	results := make([][]Event, len(agg.sources))

	var wg sync.WaitGroup
	for i, src := range agg.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			events, err := src.Events(ctx, win)
			if err != nil {
				agg.logger.Error(fmt.Sprintf("calendar: %s source failed: %v", src.Name(), err), err)
				return
			}
			results[i] = events
		}(i, src)
	}
	wg.Wait()

	var merged []Event
	for _, events := range results {
		merged = append(merged, events...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged
}
