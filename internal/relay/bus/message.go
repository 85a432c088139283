package bus

// Message - a single relayed line in transit through the bus.
// It has no identity beyond its content and origin and is never stored
// outside the retention ring.
type Message struct {
	// Text - raw line bytes as read from the originating connection,
	// trailing newline included.
	Text string
	// Origin - remote network address of the originating connection.
	// Used for self-exclusion; TCP guarantees it is unique per live
	// connection.
	Origin string
}
