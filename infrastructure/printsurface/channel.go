package printsurface

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("print surface channel closed")

// Channel carries messages to one isolated rendering surface.
// Delivery is at-most-once with no acknowledgement.
type Channel interface {
	Send(Message) error
	// Ready is closed once the surface can render.
	Ready() <-chan struct{}
	// Done is closed when the surface goes away.
	Done() <-chan struct{}
	Close() error
}

// MemoryChannel records messages in memory. It backs tests and server-side renderers.
type MemoryChannel struct {
	mu        sync.Mutex
	msgs      []Message
	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
	doneOnce  sync.Once
}

func NewMemoryChannel() *MemoryChannel {
	return &MemoryChannel{ready: make(chan struct{}), done: make(chan struct{})}
}

func (c *MemoryChannel) MarkReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

func (c *MemoryChannel) Send(m Message) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, m)
	return nil
}

func (c *MemoryChannel) Ready() <-chan struct{} { return c.ready }
func (c *MemoryChannel) Done() <-chan struct{}  { return c.done }

func (c *MemoryChannel) Close() error {
	c.doneOnce.Do(func() { close(c.done) })
	return nil
}

// Messages returns a copy of everything sent so far.
func (c *MemoryChannel) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}
