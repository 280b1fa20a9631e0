package session

import (
	"lcxl-sequence/bus"
	"lcxl-sequence/debug"
	"lcxl-sequence/lcxl"
	"lcxl-sequence/sequencer"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Bottom knob row on a lane layout.
const paramKnobBase = 2 * 8

// Param is a bottom-row knob on a lane layout.
type Param int

const (
	ParamValueLengthA Param = iota
	ParamValueLengthB
	ParamStepLengthA
	ParamStepLengthB
	ParamProbabilityA
	ParamProbabilityB
	ParamBias
	ParamReserved
)

// handle routes one inbound message. Anything off our channel or outside the
// factory template map is dropped.
func (s *Session) handle(msg gomidi.Message) {
	var ch, key, val uint8
	switch {
	case msg.GetControlChange(&ch, &key, &val):
		if ch == s.channel {
			s.controlChange(key, int(val))
		}
	case msg.GetNoteOn(&ch, &key, &val):
		if ch != s.channel {
			return
		}
		if val == 0 {
			s.release(key)
		} else {
			s.press(key)
		}
	case msg.GetNoteOff(&ch, &key, &val):
		if ch == s.channel {
			s.release(key)
		}
	default:
		if tmpl, ok := lcxl.ParseTemplate(msg); ok {
			debug.Log("session", "surface switched to template %d", tmpl)
			if tmpl == s.template {
				s.repaint = true
			}
		}
	}
}

func (s *Session) controlChange(cc uint8, v int) {
	c, ok := lcxl.DecodeCC(cc)
	if !ok {
		return
	}
	switch c.Kind {
	case lcxl.KindFader:
		s.state.Faders[c.Index()] = v
	case lcxl.KindKnob:
		s.turnKnob(c.Index(), v)
	case lcxl.KindNav:
		if v > 0 {
			s.navigate(lcxl.Nav(c.Col))
		}
	}
}

// turnKnob applies a physical knob read through soft takeover. The bottom row
// of a lane layout is the parameter row and is never held back.
func (s *Session) turnKnob(k, v int) {
	param := s.state.Layout > 0 && k >= paramKnobBase
	stored := &s.state.Knobs[s.state.Layout][k]
	if s.takeover.Update(k, v, *stored, param) {
		*stored = v
	}
	if param {
		s.setParam(Param(k-paramKnobBase), v)
	}
}

func (s *Session) setParam(p Param, v int) {
	l := s.lane()
	if l == nil {
		return
	}
	switch p {
	case ParamValueLengthA:
		l.SetValueLengthA(1 + v*15/127)
		s.startTimer(timerValueA)
		s.record(bus.ChangeValueLengthA, l.A.ValueLength)
	case ParamValueLengthB:
		l.SetValueLengthB(v * 9 / 128)
		s.startTimer(timerValueB)
		s.record(bus.ChangeValueLengthB, l.B.ValueLength)
	case ParamStepLengthA:
		l.SetStepLengthA(1 + v*15/127)
		s.startTimer(timerStepA)
		s.record(bus.ChangeStepLengthA, l.A.StepLength)
	case ParamStepLengthB:
		l.SetStepLengthB(v * 9 / 128)
		s.startTimer(timerStepB)
		s.record(bus.ChangeStepLengthB, l.B.StepLength)
	case ParamProbabilityA:
		l.SetProbability(sequencer.SideA, float64(v)/127)
		s.record(bus.ChangeProbabilityA, v*100/127)
	case ParamProbabilityB:
		l.SetProbability(sequencer.SideB, float64(v)/127)
		s.record(bus.ChangeProbabilityB, v*100/127)
	case ParamBias:
		l.SetBias(float64(v) / 127)
		s.record(bus.ChangeBias, v*100/127)
	}
}

// lane returns the viewed lane, nil on the default layout.
func (s *Session) lane() *sequencer.Lane {
	if s.state.Layout == 0 {
		return nil
	}
	return &s.state.Lanes[s.state.Layout-1]
}

func (s *Session) navigate(n lcxl.Nav) {
	switch n {
	case lcxl.Up:
		s.SwitchLayout((s.state.Layout + bus.NumLayouts - 1) % bus.NumLayouts)
	case lcxl.Down:
		s.SwitchLayout((s.state.Layout + 1) % bus.NumLayouts)
	}
}

// SwitchLayout views layout n. Every knob has to be picked up again.
func (s *Session) SwitchLayout(n int) {
	if n < 0 || n >= bus.NumLayouts || n == s.state.Layout {
		return
	}
	s.state.Layout = n
	s.takeover.Release()
	s.repaint = true
	s.record(bus.ChangeLayout, n)
	debug.Log("session", "layout -> %d", n)
}

func (s *Session) press(note uint8) {
	c, ok := lcxl.DecodeNote(note)
	if !ok {
		return
	}
	if c.Kind == lcxl.KindModifier {
		switch lcxl.Modifier(c.Col) {
		case lcxl.Device:
			s.deviceHeld = true
		case lcxl.RecordArm:
			s.recArmHeld = true
		}
		return
	}

	switch {
	case s.deviceHeld:
		s.deviceButton(c)
	case s.recArmHeld && s.state.Layout > 0:
		s.modeButton(c)
	case s.state.Layout == 0:
		i := c.Index()
		s.state.Buttons[i] = !s.state.Buttons[i]
	default:
		i := c.Index()
		on := s.lane().ToggleStep(i)
		s.recordStep(bus.ChangeStepToggle, boolInt(on), i)
	}
}

func (s *Session) release(note uint8) {
	c, ok := lcxl.DecodeNote(note)
	if !ok || c.Kind != lcxl.KindModifier {
		return
	}
	switch lcxl.Modifier(c.Col) {
	case lcxl.Device:
		s.deviceHeld = false
	case lcxl.RecordArm:
		s.recArmHeld = false
	}
}

// deviceButton handles a button press while Device is held: Track Focus 1
// picks the default layout, Track Focus 2-8 run lane utilities and Track
// Control 1-8 pick lane layouts.
func (s *Session) deviceButton(c lcxl.Control) {
	if c.Row == 1 {
		s.SwitchLayout(c.Col + 1)
		return
	}
	if c.Col == 0 {
		s.SwitchLayout(0)
		return
	}
	if s.state.Layout > 0 {
		s.RunUtility(Utility(c.Col))
	}
}

// modeButton handles a button press while Record Arm is held on a lane.
func (s *Session) modeButton(c lcxl.Control) {
	l := s.lane()
	if c.Row == 0 {
		if l.StepSingleMode() {
			l.Routing = sequencer.RoutingMode(c.Col)
			s.record(bus.ChangeRouting, c.Col)
		} else {
			l.Competition = sequencer.CompetitionMode(c.Col)
			s.record(bus.ChangeCompetition, c.Col)
		}
		return
	}
	switch c.Col {
	case 0:
		l.A.Range = l.A.Range.Next()
		s.record(bus.ChangeVoltageA, int(l.A.Range))
	case 1:
		l.A.Bipolar = !l.A.Bipolar
		s.record(bus.ChangeBipolarA, boolInt(l.A.Bipolar))
	case 4:
		l.B.Range = l.B.Range.Next()
		s.record(bus.ChangeVoltageB, int(l.B.Range))
	case 5:
		l.B.Bipolar = !l.B.Bipolar
		s.record(bus.ChangeBipolarB, boolInt(l.B.Bipolar))
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
