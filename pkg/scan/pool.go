package scan

import (
	"context"
	"sync"
)

// Job scans one piece of input. A non-nil error is kept by the pool.
type Job func(ctx context.Context) error

// Pool fans chapter jobs out to a fixed set of goroutines. Once the scan
// context ends, queued jobs are dropped and Submit stops blocking.
type Pool struct {
	ctx     context.Context
	queue   chan Job
	size    int
	running sync.WaitGroup

	mu     sync.Mutex
	closed bool

	errOnce sync.Once
	err     error
}

// NewPool sizes a pool. workers below 1 means one goroutine; a queue below 1
// holds two jobs per goroutine.
func NewPool(workers, queue int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queue < 1 {
		queue = 2 * workers
	}
	return &Pool{ctx: context.Background(), queue: make(chan Job, queue), size: workers}
}

// Start binds the pool to ctx and launches its goroutines.
func (p *Pool) Start(ctx context.Context) {
	p.ctx = ctx
	p.running.Add(p.size)
	for n := 0; n < p.size; n++ {
		go p.work()
	}
}

func (p *Pool) work() {
	defer p.running.Done()
	for job := range p.queue {
		if err := p.ctx.Err(); err != nil {
			p.keep(err)
			continue
		}
		if err := job(p.ctx); err != nil {
			p.keep(err)
		}
	}
}

func (p *Pool) keep(err error) {
	p.errOnce.Do(func() { p.err = err })
}

// Submit queues job. It waits for room in the queue unless the scan context
// ends first, in which case the context error is returned.
func (p *Pool) Submit(job Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.queue <- job:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Wait closes the queue, lets the goroutines finish what is queued and
// returns the first job error. Calling it again is harmless.
func (p *Pool) Wait() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	p.running.Wait()
	return p.err
}

// ErrPoolClosed is returned by Submit after Wait.
var ErrPoolClosed = &PoolError{"scan pool closed"}

type PoolError struct{ msg string }

func (e *PoolError) Error() string { return e.msg }
