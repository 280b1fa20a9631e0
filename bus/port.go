// Package bus relays the controller snapshot to a chain of satellites, one
// double-buffered hop per tick.
package bus

// Port is a single-writer, single-reader double buffer. The producer writes
// into Producer during a tick and requests a flip; Flip at the end of the
// tick makes that buffer readable through Consumer on the next tick.
type Port[T any] struct {
	buf      [2]T
	producer int
	flip     bool
}

// NewPort returns a port with both buffers set to empty.
func NewPort[T any](empty T) *Port[T] {
	return &Port[T]{buf: [2]T{empty, empty}}
}

// Producer is the buffer written this tick.
func (p *Port[T]) Producer() *T {
	return &p.buf[p.producer]
}

// Consumer is the buffer published by the previous tick.
func (p *Port[T]) Consumer() *T {
	return &p.buf[1-p.producer]
}

// RequestFlip marks the producer buffer as complete for this tick.
func (p *Port[T]) RequestFlip() {
	p.flip = true
}

// Flip swaps the buffers if a flip was requested and reports whether it did.
func (p *Port[T]) Flip() bool {
	if !p.flip {
		return false
	}
	p.producer = 1 - p.producer
	p.flip = false
	return true
}

// Reset overwrites both buffers, as when a cable is unplugged.
func (p *Port[T]) Reset(empty T) {
	p.buf = [2]T{empty, empty}
	p.flip = false
}
