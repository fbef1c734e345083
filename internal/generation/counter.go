// Package generation tags outgoing requests so that a response arriving after
// a newer one has already been applied can be recognized and dropped.
//
// A Counter belongs to one controller instance and is only touched from that
// controller's update loop.
package generation

// Counter hands out increasing sequence numbers and remembers the newest one
// whose response was applied.
type Counter struct {
	issued  uint64
	applied uint64
}

// Next returns the sequence number for a new request.
func (c *Counter) Next() uint64 {
	c.issued++
	return c.issued
}

// Accept reports whether the response for seq may be applied. It returns
// false when a response for a newer request has already been accepted.
func (c *Counter) Accept(seq uint64) bool {
	if seq <= c.applied {
		return false
	}
	c.applied = seq
	return true
}

// Latest reports whether seq is the most recently issued request.
func (c *Counter) Latest(seq uint64) bool {
	return seq == c.issued
}
