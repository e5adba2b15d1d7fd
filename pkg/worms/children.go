package worms

import (
	"context"
	"sync"
	"time"
)

// childrenWorkers is the fixed pool size for parallel children fetches.
const childrenWorkers = 5

// childrenTimeout bounds each per-taxon fetch.
const childrenTimeout = 10 * time.Second

// childrenResult carries one taxon's children back from a worker.
type childrenResult struct {
	aphiaID int
	records []Record
}

// ChildrenParallel fetches the children of several taxa over a fixed worker
// pool. A taxon whose fetch fails maps to an empty slice; partial results
// are always returned.
func (c *Client) ChildrenParallel(ctx context.Context, aphiaIDs []int) map[int][]Record {
	results := make(map[int][]Record, len(aphiaIDs))
	if len(aphiaIDs) == 0 {
		return results
	}

	queue := make(chan int, len(aphiaIDs))
	for _, id := range aphiaIDs {
		queue <- id
	}
	close(queue)

	out := make(chan childrenResult, len(aphiaIDs))

	var wg sync.WaitGroup
	workers := childrenWorkers
	if len(aphiaIDs) < workers {
		workers = len(aphiaIDs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range queue {
				select {
				case <-ctx.Done():
					out <- childrenResult{aphiaID: id}
					continue
				default:
				}

				fetchCtx, cancel := context.WithTimeout(ctx, childrenTimeout)
				records := c.ChildrenByID(fetchCtx, id)
				cancel()

				out <- childrenResult{aphiaID: id, records: records}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	for result := range out {
		results[result.aphiaID] = result.records
	}

	c.logger.Debug().
		Int("taxa", len(aphiaIDs)).
		Int("workers", workers).
		Msg("Parallel children fetch complete")

	return results
}
