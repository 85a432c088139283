package bus

// ring - retains a limited number of the most recent messages, addressed
// by absolute publish sequence. When capacity is reached it drops the
// oldest message on every push. Synchronization is the owner's duty.
type ring struct {
	max  int
	data []Message
	next uint64
}

func newRing(max int) *ring {
	return &ring{max: max, data: []Message{}}
}

// push - appends the message and assigns it the next sequence number.
func (r *ring) push(m Message) {
	if len(r.data) == r.max {
		r.data = r.data[1:]
	}
	r.data = append(r.data, m)
	r.next++
}

// oldest - returns the sequence of the oldest retained message.
// Equals next when the ring is empty.
func (r *ring) oldest() uint64 {
	return r.next - uint64(len(r.data))
}

// at - returns the message with the given sequence.
// Reports false when the sequence is outside the retained window.
func (r *ring) at(seq uint64) (Message, bool) {
	if seq < r.oldest() || seq >= r.next {
		return Message{}, false
	}
	return r.data[seq-r.oldest()], true
}
