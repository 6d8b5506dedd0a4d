package scan

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/scalescape/stale/store/cloud"
)

const DefaultWorkers = 10

type Coordinator struct {
	store   cloud.Store
	scanner Scanner
	workers int
	log     zerolog.Logger
}

func NewCoordinator(log zerolog.Logger, store cloud.Store, workers int) Coordinator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return Coordinator{
		store:   store,
		scanner: NewScanner(log, store),
		workers: workers,
		log:     log,
	}
}

// Run lists every bucket in the project once, fans the recency check out
// across the worker pool and collects results in completion order. A listing
// failure abandons the scan with an empty result set; per-bucket failures
// only drop that bucket.
func (c Coordinator) Run(ctx context.Context, cutoff time.Time) []Result {
	names, err := c.store.ListBuckets(ctx)
	if err != nil {
		c.log.Error().Msgf("failed to list buckets: %v", err)
		return nil
	}
	c.log.Debug().Msgf("scanning %d buckets with %d workers", len(names), c.workers)

	sem := make(chan struct{}, c.workers)
	outcomes := make(chan Outcome)
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes <- c.scanner.Check(ctx, name, cutoff)
		}(name)
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	results := make([]Result, 0)
	for out := range outcomes {
		switch out.Status {
		case Unmodified:
			results = append(results, out.Result)
		case Excluded:
			c.log.Debug().Str("bucket", out.Bucket).Msgf("excluded: %s", out.Reason)
		case Failed:
			c.log.Error().Str("bucket", out.Bucket).Msgf("error processing bucket: %v", out.Err)
		}
	}
	return results
}
