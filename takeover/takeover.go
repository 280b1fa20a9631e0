// Package takeover keeps physical knob motion from jumping stored values
// after the stored value changed underneath the knob (layout switch).
package takeover

// NumKnobs is the number of knobs tracked.
const NumKnobs = 24

// Tolerance is how close (inclusive) the physical position must come to the
// stored value before the knob is picked up again.
const Tolerance = 2

// Unknown is the physical position before the first read from the device.
const Unknown = -1

// Sync is the relation between a knob's physical position and its stored value.
type Sync int

const (
	InSync    Sync = iota
	TurnRight      // physical below stored
	TurnLeft       // physical above stored
)

func (s Sync) String() string {
	switch s {
	case TurnRight:
		return "turn right"
	case TurnLeft:
		return "turn left"
	}
	return "in sync"
}

// Tracker holds per-knob takeover state.
type Tracker struct {
	physical [NumKnobs]int
	pickedUp [NumKnobs]bool
}

// New returns a tracker with every knob picked up and its position unknown.
func New() *Tracker {
	t := &Tracker{}
	for i := range t.physical {
		t.physical[i] = Unknown
		t.pickedUp[i] = true
	}
	return t
}

// Update records a physical read of knob and reports whether the value may be
// written to storage. Parameter knobs pass bypass and are always allowed.
func (t *Tracker) Update(knob, physical, stored int, bypass bool) bool {
	if knob < 0 || knob >= NumKnobs {
		return false
	}
	t.physical[knob] = physical
	if bypass {
		t.pickedUp[knob] = true
		return true
	}
	if !t.pickedUp[knob] && abs(physical-stored) <= Tolerance {
		t.pickedUp[knob] = true
	}
	return t.pickedUp[knob]
}

// Release drops every knob; each must be picked up again.
func (t *Tracker) Release() {
	for i := range t.pickedUp {
		t.pickedUp[i] = false
	}
}

// PickedUp reports whether knob currently writes through.
func (t *Tracker) PickedUp(knob int) bool {
	if knob < 0 || knob >= NumKnobs {
		return false
	}
	return t.pickedUp[knob]
}

// Physical returns the last physical position of knob, or Unknown.
func (t *Tracker) Physical(knob int) int {
	if knob < 0 || knob >= NumKnobs {
		return Unknown
	}
	return t.physical[knob]
}

// State tells which way the knob must be turned to reach stored.
func (t *Tracker) State(knob, stored int) Sync {
	if knob < 0 || knob >= NumKnobs {
		return InSync
	}
	pos := t.physical[knob]
	if pos < 0 || t.pickedUp[knob] || abs(pos-stored) <= Tolerance {
		return InSync
	}
	if pos < stored {
		return TurnRight
	}
	return TurnLeft
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
