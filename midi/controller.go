package midi

import gomidi "gitlab.com/gomidi/midi/v2"

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchControl
	ControllerGates
)

func (t ControllerType) String() string {
	switch t {
	case ControllerLaunchControl:
		return "launch control xl"
	case ControllerGates:
		return "gates"
	}
	return "unknown"
}

// Controller is the interface for MIDI devices
type Controller interface {
	ID() string
	Type() ControllerType

	// Raw inbound messages in arrival order
	Messages() <-chan gomidi.Message

	// Output to the controller
	Send(msg gomidi.Message) error

	// Lifecycle
	Close() error
}

// GateSource reports gate voltages keyed by MIDI note
type GateSource interface {
	Levels() Gates
}

// Gates holds one gate voltage per MIDI note
type Gates [128]float64

// Level returns the voltage on note, 0 for an unmapped note
func (g *Gates) Level(note int) float64 {
	if note < 0 || note >= len(g) {
		return 0
	}
	return g[note]
}

// Connected reports whether note is a mapped jack
func Connected(note int) bool {
	return note >= 0 && note < 128
}
