// Package worker runs per-group consensus synthesis concurrently. Grouping
// itself is strictly sequential; only after membership is frozen are groups
// independent enough to fan out.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	GetError() error
}

// Pool runs jobs across a fixed set of workers.
type Pool struct {
	workers       int
	jobs          chan Job
	results       chan Result
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc
	closeJobsOnce sync.Once
	closeOnce     sync.Once
}

// NewPool creates a pool with the given number of workers; values below one
// fall back to a single worker.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Submissions after shutdown are dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Close signals that no more jobs will be submitted. Safe to call more than
// once; must not race with Submit.
func (p *Pool) Close() {
	p.closeJobsOnce.Do(func() {
		close(p.jobs)
	})
}

// Wait closes the queue, waits for the workers to drain it, and returns all
// results. Use Collect instead when jobs are still being submitted from
// another goroutine.
func (p *Pool) Wait() []Result {
	p.Close()
	return p.Collect()
}

// Collect drains results until the workers finish. The submitting goroutine
// must call Close once it is done, or Collect never returns. The channel
// buffers are sized to the worker count, so a submitter that outpaces the
// drain blocks in Submit until Collect catches up; collecting concurrently
// with submission keeps both sides moving.
func (p *Pool) Collect() []Result {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for r := range p.results {
		results = append(results, r)
	}
	return results
}

// Shutdown cancels outstanding work immediately.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
