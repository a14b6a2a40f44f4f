package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds RunBatch when the caller passes zero
const DefaultConcurrency = 4

// BatchResult pairs a request with its outcome
type BatchResult struct {
	Request Request
	Result  *Result
	Err     error
}

// RunBatch runs independent requests concurrently, at most concurrency at a time.
// Each request is sequential internally and one failure does not stop the others.
// Results are returned in request order. Cancelling ctx stops requests that have not started.
func (p *Pipeline) RunBatch(ctx context.Context, reqs []Request, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]BatchResult, len(reqs))
	g := new(errgroup.Group)
	g.SetLimit(concurrency)

	for i, req := range reqs {
		results[i].Request = req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Result, results[i].Err = p.Run(ctx, req)
			return nil
		})
	}

	_ = g.Wait()
	return results
}
