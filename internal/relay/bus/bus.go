// Package bus implements the shared broadcast primitive of the relay:
// one publish side, many independent subscribers, bounded retention.
package bus

import (
	"context"
	"sync"
)

// Bus - fans published messages out to every registered subscriber.
// A slow or absent subscriber never blocks a publisher: messages are kept
// in a bounded retention ring and a subscriber falling out of the window
// observes a lag instead. All mutation is synchronized internally, callers
// never coordinate or hold locks of their own.
type Bus struct {
	mu     sync.Mutex
	ring   *ring
	subs   map[*Subscriber]struct{}
	done   chan struct{}
	closed bool
}

func setup(b *Bus, options ...busOption) error {
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(b); err != nil {
			return err
		}
	}
	return nil
}

// New - builds Bus with needed options.
func New(options ...busOption) (*Bus, error) {
	b := &Bus{
		ring: newRing(DefaultCapacity),
		subs: map[*Subscriber]struct{}{},
		done: make(chan struct{}),
	}
	if err := setup(b, options...); err != nil {
		return nil, err
	}
	return b, nil
}

// Publish - appends the message to the retention ring and wakes every
// registered subscriber. Never blocks. Returns the number of subscribers
// registered at publish time; zero is not an error, the message simply
// has no recipient.
func (b *Bus) Publish(m Message) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}
	b.ring.push(m)
	for s := range b.subs {
		select {
		case s.wake <- struct{}{}:
		default:
			// subscriber already has a pending wakeup
		}
	}
	return len(b.subs)
}

// Subscribe - registers a new subscriber whose view starts with the next
// published message. Messages published earlier are never seen.
func (b *Bus) Subscribe() *Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := &Subscriber{
		bus:    b,
		cursor: b.ring.next,
		wake:   make(chan struct{}, 1),
	}
	if b.closed {
		s.closed = true
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Close - shuts the bus down: pending and future Receive calls return
// ErrClosed, future Publish calls are dropped. Safe to call repeatedly.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}

// Subscriber - an independent view over the bus, exclusively owned by one
// session. Receive is not safe for concurrent use.
type Subscriber struct {
	bus    *Bus
	cursor uint64
	wake   chan struct{}
	closed bool
}

// Receive - blocks until the next message is available, the context is
// canceled or the bus is closed. When the subscriber has fallen behind
// the retention ring, the cursor jumps to the oldest retained message and
// a *LagError reports how many were skipped; the following Receive
// resumes from the surviving messages.
func (s *Subscriber) Receive(ctx context.Context) (Message, error) {
	for {
		s.bus.mu.Lock()
		if s.closed || s.bus.closed {
			s.bus.mu.Unlock()
			return Message{}, ErrClosed
		}
		if oldest := s.bus.ring.oldest(); s.cursor < oldest {
			missed := oldest - s.cursor
			s.cursor = oldest
			s.bus.mu.Unlock()
			return Message{}, &LagError{Missed: missed}
		}
		if m, ok := s.bus.ring.at(s.cursor); ok {
			s.cursor++
			s.bus.mu.Unlock()
			return m, nil
		}
		s.bus.mu.Unlock()

		select {
		case <-s.wake:
		case <-s.bus.done:
			return Message{}, ErrClosed
		case <-ctx.Done():
			return Message{}, ctx.Err()
		}
	}
}

// Close - deregisters the subscriber. Messages published afterwards are
// never delivered to it. Safe to call repeatedly.
func (s *Subscriber) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	delete(s.bus.subs, s)
}
