package bus

import "fmt"

// DefaultCapacity - number of messages the bus retains for lagging
// subscribers unless overridden with WithCapacity.
const DefaultCapacity = 10

type busOption func(b *Bus) error

// WithCapacity - overwrites default capacity of the retention ring.
// Capacity caps bus memory regardless of subscriber count: a subscriber
// lagging by more than this many messages observes a gap.
func WithCapacity(n int) busOption {
	return func(b *Bus) error {
		if n <= 0 {
			return fmt.Errorf("bus.WithCapacity: invalid capacity (%d)", n)
		}
		b.ring = newRing(n)
		return nil
	}
}
