package midi

import (
	"fmt"
	"sync"

	"lcxl-sequence/signal"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// GateController turns notes from a MIDI input into gate voltages: note-on
// raises the gate, note-off drops it. A note struck and released between two
// samples still reads high once so short triggers are not lost. A high gate
// released and struck again between two samples reads low once before going
// high, so legato clocks keep every edge.
type GateController struct {
	id       string
	inPort   drivers.In
	stopFunc func()

	mu      sync.Mutex
	held    [128]bool
	struck  [128]bool
	dropped [128]bool
	sampled [128]bool
}

// NewGateController opens the gate input (input only)
func NewGateController(id string, inPort drivers.In) (*GateController, error) {
	g := &GateController{
		id:     id,
		inPort: inPort,
	}

	// Open input
	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			g.handle(msg)
		})
		if err != nil {
			return nil, fmt.Errorf("open input %s: %w", inPort, err)
		}
		g.stopFunc = stop
	}

	return g, nil
}

func (g *GateController) handle(msg gomidi.Message) {
	var channel, note, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		g.set(note, velocity > 0)
	case msg.GetNoteOff(&channel, &note, &velocity):
		g.set(note, false)
	}
}

func (g *GateController) set(note uint8, on bool) {
	if note >= 128 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.held[note] = on
	switch {
	case !on && g.sampled[note] && !g.dropped[note]:
		g.dropped[note] = true
		g.struck[note] = false
	case on:
		g.struck[note] = true
	}
}

// Levels samples every gate and clears the latches. A latched fall reads low
// and keeps any later strike for the next sample.
func (g *GateController) Levels() Gates {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out Gates
	for i := range out {
		high := false
		if g.dropped[i] {
			g.dropped[i] = false
		} else {
			high = g.held[i] || g.struck[i]
			g.struck[i] = false
		}
		g.sampled[i] = high
		out[i] = signal.Voltage(high)
	}
	return out
}

func (g *GateController) ID() string {
	return g.id
}

func (g *GateController) Type() ControllerType {
	return ControllerGates
}

// Messages is nil; gates are sampled through Levels
func (g *GateController) Messages() <-chan gomidi.Message {
	return nil
}

// Send is a no-op for gate inputs
func (g *GateController) Send(msg gomidi.Message) error {
	return nil
}

func (g *GateController) Close() error {
	if g.stopFunc != nil {
		g.stopFunc()
		g.stopFunc = nil
	}
	return nil
}
