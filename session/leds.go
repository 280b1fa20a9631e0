package session

import (
	"lcxl-sequence/debug"
	"lcxl-sequence/lcxl"
	"lcxl-sequence/sequencer"
	"lcxl-sequence/takeover"
)

// Frame is the color of every surface LED, knobs first then buttons.
type Frame [lcxl.NumLEDs]lcxl.Color

func (f *Frame) knob(i int, c lcxl.Color) {
	if led, ok := lcxl.KnobLED(i); ok {
		f[led] = c
	}
}

func (f *Frame) button(i int, c lcxl.Color) {
	if led, ok := lcxl.ButtonLED(i); ok {
		f[led] = c
	}
}

// Knob returns the color of knob i.
func (f Frame) Knob(i int) lcxl.Color {
	led, ok := lcxl.KnobLED(i)
	if !ok {
		return lcxl.Off
	}
	return f[led]
}

// Button returns the color of button i.
func (f Frame) Button(i int) lcxl.Color {
	led, ok := lcxl.ButtonLED(i)
	if !ok {
		return lcxl.Off
	}
	return f[led]
}

// Render computes what the surface should show right now.
func (s *Session) Render() Frame {
	var f Frame
	if s.state.Layout == 0 {
		s.renderDefault(&f)
	} else {
		s.renderLane(&f)
	}
	switch {
	case s.deviceHeld:
		s.renderLayoutSelect(&f)
	case s.recArmHeld && s.state.Layout > 0:
		s.renderModeSelect(&f)
	}
	return f
}

// flushLEDs sends only the LEDs that differ from what the surface shows, or
// all of them after a repaint request.
func (s *Session) flushLEDs() {
	frame := s.Render()
	n := 0
	for led, c := range frame {
		if !s.repaint && s.shown[led] == c {
			continue
		}
		s.send(lcxl.LEDMessage(s.template, uint8(led), c))
		s.shown[led] = c
		n++
	}
	if n > 0 {
		debug.LogEvery(50, "led", "flushLEDs: batch=%d full=%v", n, s.repaint)
	}
	s.repaint = false
	s.out.LEDChanges = n
}

func (s *Session) renderDefault(f *Frame) {
	for k := 0; k < lcxl.NumKnobs; k++ {
		f.knob(k, s.knobColor(k, true))
	}
	for i, on := range s.state.Buttons {
		if on {
			f.button(i, lcxl.GreenFull)
		} else {
			f.button(i, lcxl.Off)
		}
	}
}

func (s *Session) renderLane(f *Frame) {
	l := &s.state.Lanes[s.state.Layout-1]

	if l.StepSingleMode() {
		for i := 0; i < sequencer.NumSteps; i++ {
			f.button(i, stepColor(i, l.A.StepLength, l.A.Step, l.Steps[i], s.amber(timerStepA)))
		}
	} else {
		for i := 0; i < sequencer.HalfSteps; i++ {
			f.button(i, stepColor(i, l.A.StepLength, l.A.Step, l.Steps[i], s.amber(timerStepA)))
			f.button(sequencer.HalfSteps+i, stepColor(i, l.B.StepLength, l.B.Step,
				l.Steps[sequencer.HalfSteps+i], s.amber(timerStepB)))
		}
	}

	if l.ValueSingleMode() {
		for i := 0; i < sequencer.NumSteps; i++ {
			f.knob(i, s.valueColor(i, i, l.A.ValueLength, l.A.Value, s.amber(timerValueA)))
		}
	} else {
		for i := 0; i < sequencer.HalfSteps; i++ {
			f.knob(i, s.valueColor(i, i, l.A.ValueLength, l.A.Value, s.amber(timerValueA)))
			f.knob(sequencer.HalfSteps+i, s.valueColor(sequencer.HalfSteps+i, i,
				l.B.ValueLength, l.B.Value, s.amber(timerValueB)))
		}
	}

	for k := paramKnobBase; k < lcxl.NumKnobs; k++ {
		f.knob(k, s.knobColor(k, true))
	}
}

// stepColor colors step pos of a sub-lane of the given length.
func stepColor(pos, length, cursor int, active, amber bool) lcxl.Color {
	switch {
	case pos >= length:
		return lcxl.Off
	case amber && pos == length-1:
		return lcxl.AmberFull
	case pos == cursor && active:
		return lcxl.GreenFull
	case pos == cursor:
		return lcxl.RedLow
	case active:
		return lcxl.GreenLow
	}
	return lcxl.Off
}

// valueColor colors value knob k sitting at position pos of a sub-lane.
func (s *Session) valueColor(k, pos, length, cursor int, amber bool) lcxl.Color {
	switch {
	case pos >= length:
		return lcxl.Off
	case amber && pos == length-1:
		return lcxl.AmberFull
	}
	return s.knobColor(k, pos == cursor)
}

// knobColor shows the takeover direction: green in sync, yellow turn right,
// red turn left.
func (s *Session) knobColor(k int, bright bool) lcxl.Color {
	switch s.KnobSync(k) {
	case takeover.TurnRight:
		return pick(bright, lcxl.YellowFull, lcxl.YellowLow)
	case takeover.TurnLeft:
		return pick(bright, lcxl.RedFull, lcxl.RedLow)
	}
	return pick(bright, lcxl.GreenFull, lcxl.GreenLow)
}

func pick(bright bool, full, low lcxl.Color) lcxl.Color {
	if bright {
		return full
	}
	return low
}

// renderLayoutSelect lights the button of the viewed layout.
func (s *Session) renderLayoutSelect(f *Frame) {
	for i := 0; i < lcxl.NumButtons; i++ {
		f.button(i, lcxl.Off)
	}
	if s.state.Layout == 0 {
		f.button(0, lcxl.GreenFull)
	} else {
		f.button(8+s.state.Layout-1, lcxl.GreenFull)
	}
}

// renderModeSelect shows the lane's mode on Track Focus and its voltage
// settings on Track Control.
func (s *Session) renderModeSelect(f *Frame) {
	l := s.lane()
	mode := int(l.Competition)
	if l.StepSingleMode() {
		mode = int(l.Routing)
	}
	for i := 0; i < lcxl.NumButtons; i++ {
		f.button(i, lcxl.Off)
	}
	f.button(mode, lcxl.GreenFull)
	f.button(8, rangeColor(l.A.Range))
	f.button(9, bipolarColor(l.A.Bipolar))
	f.button(12, rangeColor(l.B.Range))
	f.button(13, bipolarColor(l.B.Bipolar))
}

func rangeColor(r sequencer.Range) lcxl.Color {
	switch r {
	case sequencer.Range10V:
		return lcxl.AmberFull
	case sequencer.Range1V:
		return lcxl.RedFull
	}
	return lcxl.GreenFull
}

func bipolarColor(on bool) lcxl.Color {
	return pick(on, lcxl.RedFull, lcxl.GreenFull)
}
