// Package clock resolves where each lane's clock edges come from.
package clock

import (
	"lcxl-sequence/bus"
	"lcxl-sequence/sequencer"
)

const numLanes = sequencer.NumLanes

// Inputs are the per-lane clock jacks. Connected marks a patched jack.
type Inputs struct {
	A, B                   [numLanes]float64
	ConnectedA, ConnectedB [numLanes]bool
}

// Message is the per-lane clock view handed to the controller each tick.
type Message struct {
	Owner      int64
	A, B       [numLanes]float64
	HasA, HasB [numLanes]bool
}

// Empty returns a message with no owner.
func Empty() Message {
	return Message{Owner: bus.NoOwner}
}

// Valid reports whether an expander has published into m.
func (m *Message) Valid() bool {
	return m.Owner >= 0
}

// Resolve applies the patching rules: an unpatched clock A takes the nearest
// patched clock A of a lower lane; an unpatched clock B follows its own
// lane's clock A and is absent when that is absent too.
func Resolve(owner int64, in Inputs) Message {
	m := Message{Owner: owner}
	for lane := 0; lane < numLanes; lane++ {
		for src := lane; src >= 0; src-- {
			if in.ConnectedA[src] {
				m.A[lane] = in.A[src]
				m.HasA[lane] = true
				break
			}
		}
		if in.ConnectedB[lane] {
			m.B[lane] = in.B[lane]
			m.HasB[lane] = true
		} else {
			m.B[lane] = m.A[lane]
			m.HasB[lane] = m.HasA[lane]
		}
	}
	return m
}

// Expander publishes per-lane clocks into the controller's left port.
type Expander struct {
	ID   int64
	port *bus.Port[Message]
}

// NewExpander returns an expander writing into its own port.
func NewExpander(id int64) *Expander {
	return &Expander{ID: id, port: bus.NewPort(Empty())}
}

// Port is the buffer the controller reads.
func (e *Expander) Port() *bus.Port[Message] {
	return e.port
}

// Publish writes this tick's inputs.
func (e *Expander) Publish(in Inputs) {
	*e.port.Producer() = Resolve(e.ID, in)
	e.port.RequestFlip()
}

// Shared is the controller's own pair of clock jacks.
type Shared struct {
	A, B       float64
	BConnected bool
}

// Sources picks lane's A and B clock voltages. A lane with a clock A from the
// expander uses it; otherwise it falls back to the shared jacks, where an
// unpatched B follows A.
func Sources(lane int, shared Shared, exp *Message) (a, b float64) {
	if exp != nil && exp.Valid() && exp.HasA[lane] {
		a = exp.A[lane]
		b = a
		if exp.HasB[lane] {
			b = exp.B[lane]
		}
		return a, b
	}
	a = shared.A
	b = a
	if shared.BConnected {
		b = shared.B
	}
	return a, b
}
