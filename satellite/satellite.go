// Package satellite holds the modules that hang off the controller's bus:
// gate and knob voltage banks, per-lane sequencer outputs and two displays.
package satellite

import (
	"fmt"

	"lcxl-sequence/bus"
)

// New builds a satellite from its bus kind.
func New(kind bus.Kind) (bus.Consumer, error) {
	switch kind {
	case bus.KindGate:
		return &Gate{}, nil
	case bus.KindKnob:
		return &Knob{}, nil
	case bus.KindSeq:
		return &Seq{}, nil
	case bus.KindSteps:
		return &Steps{}, nil
	case bus.KindInfo:
		return &Info{}, nil
	}
	return nil, fmt.Errorf("unknown satellite %q", kind)
}

// Chain builds a bus chain from satellite names, left to right.
func Chain(kinds []string) (*bus.Chain, error) {
	chain := bus.NewChain()
	for _, k := range kinds {
		c, err := New(bus.Kind(k))
		if err != nil {
			return nil, err
		}
		chain.Append(c)
	}
	return chain, nil
}

func acceptsAny(upstream bus.Kind) bool {
	switch upstream {
	case bus.KindController, bus.KindGate, bus.KindKnob, bus.KindSeq, bus.KindSteps, bus.KindInfo:
		return true
	}
	return false
}
