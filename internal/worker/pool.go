package worker

import (
	"context"
	"sync"
)

// Job is a unit of batch work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a job produces
type Result interface {
	GetError() error
}

type queued struct {
	index int
	job   Job
}

type finished struct {
	index  int
	result Result
}

// Pool runs jobs on a fixed number of workers. Results are drained as they
// arrive, so any number of jobs can be submitted before Wait.
type Pool struct {
	workers    int
	jobQueue   chan queued
	results    chan finished
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	submitted int
	collected map[int]Result
	drained   chan struct{}
}

// NewPool creates a pool bound to ctx; cancelling ctx stops the workers
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan queued, workers*2),
		results:    make(chan finished, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
		collected:  make(map[int]Result),
		drained:    make(chan struct{}),
	}
}

// Start launches the workers and the result collector
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case q, ok := <-p.jobQueue:
			if !ok {
				return
			}
			// results is always drained by collect, so this send cannot block forever
			p.results <- finished{index: q.index, result: q.job.Execute(p.ctx)}
		}
	}
}

func (p *Pool) collect() {
	defer close(p.drained)
	for f := range p.results {
		p.collected[f.index] = f.result
	}
}

// Submit queues a job. It returns the context error once the pool's context
// is cancelled.
// Submit is not safe for concurrent use.
func (p *Pool) Submit(job Job) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case p.jobQueue <- queued{index: p.submitted, job: job}:
		p.submitted++
		return nil
	}
}

// Wait closes the queue, waits for the workers and returns the results in
// submission order. Jobs dropped by a cancellation have no result.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	close(p.results)
	<-p.drained
	p.cancelFunc()

	results := make([]Result, 0, len(p.collected))
	for i := 0; i < p.submitted; i++ {
		if r, ok := p.collected[i]; ok {
			results = append(results, r)
		}
	}
	return results
}
