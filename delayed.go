package plex

import (
	"sync"
	"sync/atomic"
	"time"
)

// delayedPost is a dispatch waiting in the delay queue.
type delayedPost struct {
	// at is the time the dispatch becomes due
	at time.Time

	// run performs the dispatch and finishes the post
	run func()

	result chan error
	done   atomic.Bool

	// state moves from postPending to postStarted or postCancelled exactly
	// once. Cancelled posts stay in the heap until popped or compacted.
	state atomic.Int32

	// index is the heap index
	index int
}

const (
	postPending int32 = iota
	postStarted
	postCancelled
)

// start claims the post for dispatch.
func (d *delayedPost) start() bool {
	return d.state.CompareAndSwap(postPending, postStarted)
}

// cancel claims the post for cancellation.
func (d *delayedPost) cancel() bool {
	return d.state.CompareAndSwap(postPending, postCancelled)
}

func (d *delayedPost) cancelled() bool {
	return d.state.Load() == postCancelled
}

// finish delivers err to the result channel once.
func (d *delayedPost) finish(err error) {
	if !d.done.CompareAndSwap(false, true) {
		return
	}
	d.result <- err
	close(d.result)
}

// DelayedPost is a handle to a dispatch queued with PostAfter.
type DelayedPost struct {
	post *delayedPost
}

// Cancel prevents the dispatch if it is not due yet. It reports whether the
// dispatch was cancelled; the result channel then receives ErrPostCancelled.
func (h *DelayedPost) Cancel() bool {
	if h == nil || h.post == nil {
		return false
	}
	if !h.post.cancel() {
		return false
	}
	h.post.finish(ErrPostCancelled)
	return true
}

// Result returns the channel that receives the dispatch result once.
func (h *DelayedPost) Result() <-chan error {
	return h.post.result
}

// delayQueue is a binary heap of delayed posts ordered by due time.
type delayQueue struct {
	mu    sync.Mutex
	heap  []*delayedPost
	notif chan struct{}
}

func newDelayQueue() *delayQueue {
	return &delayQueue{
		heap:  make([]*delayedPost, 0, 16),
		notif: make(chan struct{}, 1),
	}
}

// Push adds a post and wakes the delay loop.
func (q *delayQueue) Push(d *delayedPost) {
	q.mu.Lock()
	if len(q.heap) > 64 && len(q.heap)%64 == 0 {
		q.compact()
	}
	d.index = len(q.heap)
	q.heap = append(q.heap, d)
	q.up(d.index)
	q.mu.Unlock()

	select {
	case q.notif <- struct{}{}:
	default:
	}
}

// PopDue removes and returns every post that is due at now, skipping
// cancelled ones.
func (q *delayQueue) PopDue(now time.Time) []*delayedPost {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []*delayedPost
	for len(q.heap) > 0 && !q.heap[0].at.After(now) {
		d := q.pop()
		if !d.cancelled() {
			due = append(due, d)
		}
	}
	return due
}

// Peek returns the due time of the earliest post.
func (q *delayQueue) Peek() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.heap) == 0 {
		return time.Time{}, false
	}
	return q.heap[0].at, true
}

// Drain empties the queue and returns the posts it could cancel.
func (q *delayQueue) Drain() []*delayedPost {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []*delayedPost
	for _, d := range q.heap {
		if d.cancel() {
			out = append(out, d)
		}
	}
	clear(q.heap)
	q.heap = q.heap[:0]
	return out
}

// Len returns the number of queued posts, cancelled ones included.
func (q *delayQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// Notify returns the channel signalled on every Push.
func (q *delayQueue) Notify() <-chan struct{} {
	return q.notif
}

// compact drops cancelled posts and restores the heap. Caller must hold lock.
func (q *delayQueue) compact() {
	write := 0
	for _, d := range q.heap {
		if !d.cancelled() {
			q.heap[write] = d
			d.index = write
			write++
		}
	}
	clear(q.heap[write:])
	q.heap = q.heap[:write]

	for i := len(q.heap)/2 - 1; i >= 0; i-- {
		q.down(i, len(q.heap))
	}
}

// pop removes the earliest post. Caller must hold lock.
func (q *delayQueue) pop() *delayedPost {
	n := len(q.heap) - 1
	q.swap(0, n)
	q.down(0, n)
	d := q.heap[n]
	q.heap[n] = nil
	q.heap = q.heap[:n]
	d.index = -1
	return d
}

func (q *delayQueue) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !q.heap[i].at.Before(q.heap[parent].at) {
			break
		}
		q.swap(i, parent)
		i = parent
	}
}

func (q *delayQueue) down(i, n int) {
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		j := left
		if right := left + 1; right < n && q.heap[right].at.Before(q.heap[left].at) {
			j = right
		}
		if !q.heap[j].at.Before(q.heap[i].at) {
			break
		}
		q.swap(i, j)
		i = j
	}
}

func (q *delayQueue) swap(i, j int) {
	q.heap[i], q.heap[j] = q.heap[j], q.heap[i]
	q.heap[i].index = i
	q.heap[j].index = j
}
