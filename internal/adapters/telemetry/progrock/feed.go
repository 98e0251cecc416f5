package progrock

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*Feed)(nil)

// Feed is a progrock.Writer that queues status updates for one reader.
// Updates written while no reader is attached are dropped.
type Feed struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*progrock.StatusUpdate
	attached bool
	closed   bool
}

// NewFeed creates a detached Feed.
func NewFeed() *Feed {
	f := &Feed{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Attach starts queueing updates for Read.
func (f *Feed) Attach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = true
}

// Detach stops queueing. Read drains what is queued and then reports io.EOF.
func (f *Feed) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attached = false
	f.cond.Broadcast()
}

// WriteStatus implements progrock.Writer.
func (f *Feed) WriteStatus(update *progrock.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attached && !f.closed {
		f.queue = append(f.queue, update)
		f.cond.Signal()
	}
	return nil
}

// Read blocks until an update is queued. It returns io.EOF once the feed is
// detached or closed and the queue is empty.
func (f *Feed) Read() (*progrock.StatusUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.queue) == 0 && f.attached && !f.closed {
		f.cond.Wait()
	}
	if len(f.queue) == 0 {
		return nil, io.EOF
	}
	update := f.queue[0]
	f.queue[0] = nil
	f.queue = f.queue[1:]
	return update, nil
}

// Close implements progrock.Writer.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
	return nil
}
