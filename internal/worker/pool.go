// Package worker provides the bounded-concurrency machinery for batch
// ingestion: a fixed-size pool and a per-domain rate limiter.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of batch work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	GetError() error
}

// Pool runs jobs with a fixed number of workers. Each Run call is
// independent; the pool itself holds no job state between runs.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given worker count
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all jobs and returns their results. Results preserve job
// order. Jobs still queued when ctx is cancelled are never started;
// their result slots stay nil.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))

	type indexed struct {
		idx int
		job Job
	}
	queue := make(chan indexed)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range queue {
				results[item.idx] = item.job.Execute(ctx)
			}
		}()
	}

feed:
	for i, job := range jobs {
		select {
		case <-ctx.Done():
			break feed
		case queue <- indexed{idx: i, job: job}:
		}
	}
	close(queue)

	wg.Wait()
	return results
}
