package plex

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// asyncPool runs posted async dispatches on a fixed set of worker goroutines.
type asyncPool struct {
	bus *Bus

	workers int
	jobs    chan func()
	wg      sync.WaitGroup

	// inline tracks dispatches that overflowed the queue
	inline sync.WaitGroup

	// delayed holds PostAfter dispatches until they are due
	delayed *delayQueue
	stop    chan struct{}
	loop    sync.WaitGroup

	running atomic.Bool
	mu      sync.RWMutex
}

// newAsyncPool creates a stopped pool.
func newAsyncPool(b *Bus, workers, queue int) *asyncPool {
	return &asyncPool{
		bus:     b,
		workers: workers,
		jobs:    make(chan func(), queue),
		delayed: newDelayQueue(),
	}
}

// Start launches the async workers. Calling Start on a running bus is a no-op.
func (b *Bus) Start() {
	p := b.pool
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() {
		return
	}
	p.jobs = make(chan func(), cap(p.jobs))
	p.stop = make(chan struct{})
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(p.jobs)
	}
	p.loop.Add(1)
	go p.delayLoop(p.stop)
	p.running.Store(true)
}

// Stop stops accepting posts and waits for queued dispatches to finish, or for
// ctx to be done. Delayed posts that are not due yet receive ErrPoolStopped.
func (b *Bus) Stop(ctx context.Context) error {
	p := b.pool
	p.mu.Lock()
	if !p.running.Swap(false) {
		p.mu.Unlock()
		return nil
	}
	close(p.stop)
	close(p.jobs)
	p.mu.Unlock()

	p.loop.Wait()
	for _, d := range p.delayed.Drain() {
		d.finish(ErrPoolStopped)
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		p.inline.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("plex: stop async pool: %w", ctx.Err())
	}
}

// worker is a pool worker that executes jobs.
func (p *asyncPool) worker(jobs <-chan func()) {
	defer p.wg.Done()
	for fn := range jobs {
		fn()
	}
}

// delayLoop hands delayed posts to the workers once they are due.
func (p *asyncPool) delayLoop(stop <-chan struct{}) {
	defer p.loop.Done()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		if next, ok := p.delayed.Peek(); ok {
			timer.Reset(time.Until(next))
		}

		select {
		case <-stop:
			return
		case <-timer.C:
		case <-p.delayed.Notify():
		}
		timer.Stop()

		for _, d := range p.delayed.PopDue(time.Now()) {
			if err := p.submit(d.run); err != nil && d.cancel() {
				d.finish(err)
			}
		}
	}
}

// submit queues job, or runs it on a goroutine of its own when the queue is full.
func (p *asyncPool) submit(job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running.Load() {
		return ErrPoolStopped
	}

	select {
	case p.jobs <- job:
	default:
		// Queue full, run on a goroutine of its own
		p.inline.Add(1)
		go func() {
			defer p.inline.Done()
			job()
		}()
	}
	return nil
}

// postContext detaches ctx for a dispatch that happens off the caller's
// goroutine: not primary, without the dispatch lock and without cancellation.
func postContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)
	ctx = context.WithValue(ctx, primaryKey{}, false)
	return context.WithValue(ctx, lockKey{}, (*heldLock)(nil))
}

// Post dispatches an async event on the worker pool. The returned channel
// receives the dispatch result once and is then closed.
//
// Posting from the primary goroutine or from inside a sync handler is allowed;
// the dispatch itself happens off it. Posted dispatches are never dropped: when
// the queue is full, the dispatch runs on a goroutine of its own.
func (b *Bus) Post(ctx context.Context, e Event, body Body) (<-chan error, error) {
	if e == nil || !e.Async() {
		return nil, ErrNotAsync
	}
	ctx = postContext(ctx)

	result := make(chan error, 1)
	job := func() {
		result <- b.call(ctx, e, nil, nil, body)
		close(result)
	}
	if err := b.pool.submit(job); err != nil {
		return nil, err
	}
	return result, nil
}

// PostAfter is Post with a delay. The dispatch is queued once delay has
// elapsed; it can be cancelled until then.
func (b *Bus) PostAfter(ctx context.Context, e Event, delay time.Duration, body Body) (*DelayedPost, error) {
	if e == nil || !e.Async() {
		return nil, ErrNotAsync
	}
	ctx = postContext(ctx)

	d := &delayedPost{
		at:     time.Now().Add(delay),
		result: make(chan error, 1),
	}
	d.run = func() {
		if d.start() {
			d.finish(b.call(ctx, e, nil, nil, body))
		}
	}

	p := b.pool
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running.Load() {
		return nil, ErrPoolStopped
	}
	p.delayed.Push(d)
	return &DelayedPost{post: d}, nil
}
