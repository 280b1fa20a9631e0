// Package lcxl maps the Novation Launch Control XL factory template 1 wire
// protocol to logical controls and builds the LED feedback messages.
package lcxl

// Factory template 1 talks on MIDI channel 9.
const (
	Channel  uint8 = 8
	Template uint8 = 8

	NumFaders  = 8
	NumKnobs   = 24
	NumButtons = 16
	NumLEDs    = NumKnobs + NumButtons
)

// Kind identifies which part of the surface a wire code belongs to.
type Kind int

const (
	KindFader Kind = iota + 1
	KindKnob
	KindButton
	KindModifier
	KindNav
)

// Modifier is one of the four side buttons (notes 105-108).
type Modifier int

const (
	Device Modifier = iota
	Mute
	Solo
	RecordArm
)

// Nav is one of the four arrow buttons (CC 104-107).
type Nav int

const (
	Up Nav = iota
	Down
	Left
	Right
)

// Control is a decoded surface element. Knobs use Row 0-2 from the top,
// buttons use Row 0 for Track Focus and Row 1 for Track Control. Modifiers
// and arrows carry their Modifier/Nav value in Col.
type Control struct {
	Kind Kind
	Row  int
	Col  int
}

// Index flattens Row/Col: knobs 0-23, buttons 0-15, faders 0-7.
func (c Control) Index() int {
	return c.Row*8 + c.Col
}

var knobRowBase = [3]uint8{13, 29, 49}

var buttonNotes = [NumButtons]uint8{
	41, 42, 43, 44, 57, 58, 59, 60, // Track Focus
	73, 74, 75, 76, 89, 90, 91, 92, // Track Control
}

const (
	faderBase    = 77
	navBase      = 104
	modifierBase = 105
)

// DecodeCC maps a control change number. Unknown numbers return false.
func DecodeCC(cc uint8) (Control, bool) {
	for row, base := range knobRowBase {
		if cc >= base && cc < base+8 {
			return Control{Kind: KindKnob, Row: row, Col: int(cc - base)}, true
		}
	}
	switch {
	case cc >= faderBase && cc < faderBase+NumFaders:
		return Control{Kind: KindFader, Col: int(cc - faderBase)}, true
	case cc >= navBase && cc <= navBase+3:
		return Control{Kind: KindNav, Col: int(cc - navBase)}, true
	}
	return Control{}, false
}

// DecodeNote maps a note number. Unknown notes return false.
func DecodeNote(note uint8) (Control, bool) {
	if note >= modifierBase && note <= modifierBase+3 {
		return Control{Kind: KindModifier, Col: int(note - modifierBase)}, true
	}
	for i, n := range buttonNotes {
		if n == note {
			return Control{Kind: KindButton, Row: i / 8, Col: i % 8}, true
		}
	}
	return Control{}, false
}

// KnobCC returns the control change number for knob 0-23.
func KnobCC(index int) uint8 {
	return knobRowBase[index/8] + uint8(index%8)
}

// FaderCC returns the control change number for fader 0-7.
func FaderCC(index int) uint8 {
	return faderBase + uint8(index)
}

// ButtonNote returns the note number for button 0-15.
func ButtonNote(index int) uint8 {
	return buttonNotes[index]
}

// ModifierNote returns the note number of a side button.
func ModifierNote(m Modifier) uint8 {
	return modifierBase + uint8(m)
}

// NavCC returns the control change number of an arrow button.
func NavCC(n Nav) uint8 {
	return navBase + uint8(n)
}

// KnobLED returns the wire LED index for knob 0-23.
func KnobLED(index int) (uint8, bool) {
	if index < 0 || index >= NumKnobs {
		return 0, false
	}
	return uint8(index), true
}

// ButtonLED returns the wire LED index for button 0-15.
func ButtonLED(index int) (uint8, bool) {
	if index < 0 || index >= NumButtons {
		return 0, false
	}
	return uint8(NumKnobs + index), true
}
