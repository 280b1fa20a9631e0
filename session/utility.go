package session

import (
	"lcxl-sequence/bus"
	"lcxl-sequence/debug"
	"lcxl-sequence/sequencer"
)

// Utility is a lane action on Track Focus 2-8 while Device is held.
type Utility int

const (
	UtilityCopy Utility = iota + 1
	UtilityPaste
	UtilityClear
	UtilityRandomSteps
	UtilityRandomValues
	UtilityInvert
	UtilityResetPlayheads
)

var utilityNames = map[Utility]string{
	UtilityCopy:           "Copy",
	UtilityPaste:          "Paste",
	UtilityClear:          "Clear",
	UtilityRandomSteps:    "Randomize",
	UtilityRandomValues:   "Rand Values",
	UtilityInvert:         "Invert",
	UtilityResetPlayheads: "Reset",
}

func (u Utility) String() string {
	return utilityNames[u]
}

// RunUtility applies u to the viewed lane. It does nothing on the default
// layout.
func (s *Session) RunUtility(u Utility) {
	l := s.lane()
	if l == nil {
		return
	}
	switch u {
	case UtilityCopy:
		s.copied = *l
		s.hasCopy = true
	case UtilityPaste:
		if !s.hasCopy {
			return
		}
		l.Steps = s.copied.Steps
	case UtilityClear:
		l.ClearSteps()
	case UtilityRandomSteps:
		l.RandomizeSteps(s.rng)
	case UtilityRandomValues:
		knobs := &s.state.Knobs[s.state.Layout]
		for i := 0; i < sequencer.NumSteps; i++ {
			knobs[i] = int(s.rng.Float64() * 127)
		}
	case UtilityInvert:
		l.InvertSteps()
	case UtilityResetPlayheads:
		s.ResetPlayheads()
	default:
		return
	}
	s.record(bus.ChangeUtility, int(u))
	debug.Log("session", "utility %s on layout %d", u, s.state.Layout)
}
