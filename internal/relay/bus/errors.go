package bus

import (
	"errors"
	"fmt"
)

// ErrClosed - returns from Publish and Receive after the bus or the
// subscriber was closed. Receiving again is pointless, the caller should
// tear down.
var ErrClosed = errors.New("bus.Bus: closed")

// LagError - reports that a subscriber fell behind the retention ring and
// a number of messages were dropped from its view. It is not fatal: the
// subscriber's cursor is already moved to the oldest retained message and
// the next Receive continues from there.
type LagError struct {
	// Missed - number of messages skipped over.
	Missed uint64
}

func (e *LagError) Error() string {
	return fmt.Sprintf("bus.Subscriber: lagged behind, %d message(s) skipped", e.Missed)
}
