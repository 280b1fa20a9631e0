// Package signal holds the gate-level helpers: edge detection on clock
// inputs and fixed-length trigger pulses.
package signal

// Schmitt detects rising edges with hysteresis: high at 1 V, low at 0 V.
type Schmitt struct {
	high bool
}

const (
	LowThreshold  = 0.0
	HighThreshold = 1.0
)

// Process feeds one sample and reports a rising edge.
func (s *Schmitt) Process(v float64) bool {
	if s.high {
		if v <= LowThreshold {
			s.high = false
		}
		return false
	}
	if v >= HighThreshold {
		s.high = true
		return true
	}
	return false
}

// High reports the current latched state.
func (s *Schmitt) High() bool {
	return s.high
}

// TriggerDuration is the length of an emitted trigger in seconds.
const TriggerDuration = 1e-3

// TriggerVoltage is the level of an active trigger or gate.
const TriggerVoltage = 10.0

// Pulse is a one-shot pulse generator.
type Pulse struct {
	remaining float64
}

// Trigger (re)starts the pulse for d seconds.
func (p *Pulse) Trigger(d float64) {
	if d > p.remaining {
		p.remaining = d
	}
}

// Process advances by dt seconds and reports whether the pulse is still high.
func (p *Pulse) Process(dt float64) bool {
	if p.remaining > 0 {
		p.remaining -= dt
		return true
	}
	return false
}

// Voltage maps a pulse state to 0 or TriggerVoltage.
func Voltage(high bool) float64 {
	if high {
		return TriggerVoltage
	}
	return 0
}
