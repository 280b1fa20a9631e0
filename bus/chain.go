package bus

// Kind is the declared type of a module on the bus.
type Kind string

const (
	KindController Kind = "controller"
	KindGate       Kind = "gate"
	KindKnob       Kind = "knob"
	KindSeq        Kind = "seq"
	KindSteps      Kind = "steps"
	KindInfo       Kind = "info"
)

// Consumer is a satellite fed by the bus.
type Consumer interface {
	Kind() Kind
	// Accepts reports whether a snapshot forwarded by upstream is usable.
	Accepts(upstream Kind) bool
	// Process runs once per tick. in is nil while disconnected and is only
	// valid for the duration of the call.
	Process(in *Snapshot, dt float64)
}

type hop struct {
	consumer Consumer
	in       *Port[Snapshot]
}

// Chain is the controller followed by its satellites, left to right.
type Chain struct {
	head *Port[Snapshot]
	hops []*hop
}

// NewChain returns a chain with no satellites.
func NewChain() *Chain {
	return &Chain{head: NewPort(Empty())}
}

// Head is the port the controller publishes into.
func (c *Chain) Head() *Port[Snapshot] {
	return c.head
}

// Append plugs a consumer onto the right end.
func (c *Chain) Append(consumer Consumer) {
	in := c.head
	if len(c.hops) > 0 {
		in = NewPort(Empty())
	}
	c.hops = append(c.hops, &hop{consumer: consumer, in: in})
}

// Remove unplugs the consumer at index i. The module that slides into its
// place starts from an empty input.
func (c *Chain) Remove(i int) {
	if i < 0 || i >= len(c.hops) {
		return
	}
	c.hops = append(c.hops[:i], c.hops[i+1:]...)
	if i < len(c.hops) {
		if i == 0 {
			c.hops[0].in = c.head
		} else {
			c.hops[i].in.Reset(Empty())
		}
	}
}

// Consumers lists the satellites in chain order.
func (c *Chain) Consumers() []Consumer {
	out := make([]Consumer, len(c.hops))
	for i, h := range c.hops {
		out[i] = h.consumer
	}
	return out
}

// Step runs every consumer against the previous tick's buffers and forwards
// each one's input to its right neighbour. A hop that is disconnected
// forwards an empty snapshot so the break propagates down the chain.
func (c *Chain) Step(dt float64) {
	for i, h := range c.hops {
		upstream := KindController
		if i > 0 {
			upstream = c.hops[i-1].consumer.Kind()
		}

		in := h.in.Consumer()
		connected := in.Valid() && h.consumer.Accepts(upstream)
		if connected {
			h.consumer.Process(in, dt)
		} else {
			h.consumer.Process(nil, dt)
		}

		if i+1 < len(c.hops) {
			next := c.hops[i+1].in
			if connected {
				*next.Producer() = *in
			} else {
				*next.Producer() = Empty()
			}
			next.RequestFlip()
		}
	}
}

// Flip ends the tick on every port.
func (c *Chain) Flip() {
	c.head.Flip()
	for _, h := range c.hops[min(1, len(c.hops)):] {
		h.in.Flip()
	}
}
