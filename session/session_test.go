package session

import (
	"testing"

	"lcxl-sequence/bus"
	"lcxl-sequence/clock"
	"lcxl-sequence/lcxl"
	"lcxl-sequence/sequencer"
	"lcxl-sequence/takeover"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

const dt = 0.001

func newSession() *Session {
	return New(Config{
		ID:       1,
		Channel:  lcxl.Channel,
		Template: lcxl.Template,
		Rand:     sequencer.NewRand(1),
	})
}

func tick(s *Session, msgs ...gomidi.Message) *Output {
	return s.Tick(Input{Dt: dt, Messages: msgs, Output: "lcxl"}, nil)
}

func knob(i int, v uint8) gomidi.Message {
	return gomidi.ControlChange(lcxl.Channel, lcxl.KnobCC(i), v)
}

func press(note uint8) gomidi.Message {
	return gomidi.NoteOn(lcxl.Channel, note, 127)
}

func release(note uint8) gomidi.Message {
	return gomidi.NoteOff(lcxl.Channel, note)
}

func pressButton(i int) []gomidi.Message {
	n := lcxl.ButtonNote(i)
	return []gomidi.Message{press(n), release(n)}
}

func TestDeviceInitialization(t *testing.T) {
	s := newSession()

	out := s.Tick(Input{Dt: dt}, nil)
	assert.Empty(t, out.Send)
	assert.False(t, s.TakenOver())

	out = tick(s)
	require.Len(t, out.Send, 2+lcxl.NumLEDs)
	assert.Equal(t, []byte{0xf0, 0x00, 0x20, 0x29, 0x02, 0x11, 0x77, 0x08, 0xf7}, []byte(out.Send[0]))
	assert.Equal(t, []byte{0xb8, 0x00, 0x00}, []byte(out.Send[1]))
	assert.True(t, s.TakenOver())

	// nothing changed, nothing sent
	out = tick(s)
	assert.Empty(t, out.Send)

	out = s.Tick(Input{Dt: dt}, nil)
	assert.Empty(t, out.Send)
	assert.False(t, s.TakenOver())
}

func TestTakeoverRequestRepaints(t *testing.T) {
	s := newSession()
	tick(s)
	s.Takeover()
	out := tick(s)
	assert.Len(t, out.Send, 2+lcxl.NumLEDs)
}

func TestTemplateChangeRepaints(t *testing.T) {
	s := newSession()
	tick(s)

	out := tick(s, lcxl.TemplateMessage(0))
	assert.Empty(t, out.Send)

	out = tick(s, lcxl.TemplateMessage(lcxl.Template))
	assert.Len(t, out.Send, lcxl.NumLEDs)
}

func TestPartialRepaintSendsOnlyChanges(t *testing.T) {
	s := newSession()
	tick(s)

	out := tick(s, pressButton(0)...)
	require.Len(t, out.Send, 1)
	// button 0 is LED 24, full green is 0x3c
	assert.Equal(t, []byte{0xf0, 0x00, 0x20, 0x29, 0x02, 0x11, 0x78, 0x08, 0x18, 0x3c, 0xf7}, []byte(out.Send[0]))
	assert.True(t, s.State().Buttons[0])
}

func TestOtherChannelIgnored(t *testing.T) {
	s := newSession()
	tick(s, gomidi.ControlChange(0, lcxl.KnobCC(0), 90), gomidi.NoteOn(0, lcxl.ButtonNote(0), 127))
	assert.Equal(t, 0, s.State().Knobs[0][0])
	assert.False(t, s.State().Buttons[0])

	// unmapped CC on our channel is dropped too
	tick(s, gomidi.ControlChange(lcxl.Channel, 1, 90))
	assert.Equal(t, [lcxl.NumFaders]int{}, s.State().Faders)
}

func TestKnobTracksOnceNoLayoutSwitch(t *testing.T) {
	s := newSession()
	for v := uint8(0); v < 128; v += 7 {
		tick(s, knob(4, v))
		assert.Equal(t, int(v), s.State().Knobs[0][4])
	}
}

func TestLayoutSwitchRequiresPickup(t *testing.T) {
	s := newSession()
	tick(s, knob(0, 50))
	require.Equal(t, 50, s.State().Knobs[0][0])

	tick(s, gomidi.ControlChange(lcxl.Channel, lcxl.NavCC(lcxl.Down), 127))
	require.Equal(t, 1, s.Layout())
	assert.Equal(t, bus.ChangeLayout, s.LastChange().Type)

	// physical 50 is far above the stored 0
	assert.Equal(t, takeover.TurnLeft, s.KnobSync(0))
	f := s.Render()
	assert.Equal(t, lcxl.RedFull, f.Knob(0))

	for _, v := range []uint8{40, 20, 3} {
		tick(s, knob(0, v))
		assert.Equal(t, 0, s.State().Knobs[1][0])
	}
	tick(s, knob(0, 2))
	assert.Equal(t, 2, s.State().Knobs[1][0])
	tick(s, knob(0, 30))
	assert.Equal(t, 30, s.State().Knobs[1][0])

	// layout 0 kept its value
	assert.Equal(t, 50, s.State().Knobs[0][0])
}

func TestNavigationWraps(t *testing.T) {
	s := newSession()
	tick(s, gomidi.ControlChange(lcxl.Channel, lcxl.NavCC(lcxl.Up), 127))
	assert.Equal(t, 8, s.Layout())
	// release of the arrow does nothing
	tick(s, gomidi.ControlChange(lcxl.Channel, lcxl.NavCC(lcxl.Up), 0))
	assert.Equal(t, 8, s.Layout())
	tick(s, gomidi.ControlChange(lcxl.Channel, lcxl.NavCC(lcxl.Down), 127))
	assert.Equal(t, 0, s.Layout())
}

func TestParamKnobsBypassTakeover(t *testing.T) {
	s := newSession()
	s.SwitchLayout(1)

	tick(s, knob(paramKnobBase+int(ParamStepLengthA), 127))
	l := s.Lane(0)
	assert.Equal(t, 16, l.A.StepLength)
	assert.True(t, l.StepSingleMode())
	assert.Equal(t, bus.Change{Type: bus.ChangeStepLengthA, Layout: 1, Value: 16, Timestamp: s.LastChange().Timestamp}, s.LastChange())

	// amber marker on the last step until the window closes
	assert.Equal(t, lcxl.AmberFull, s.Render().Button(15))
	for i := 0; i < 5; i++ {
		s.Tick(Input{Dt: 0.05, Output: "lcxl"}, nil)
	}
	assert.NotEqual(t, lcxl.AmberFull, s.Render().Button(15))

	tick(s, knob(paramKnobBase+int(ParamValueLengthB), 0))
	assert.Equal(t, 0, s.Lane(0).B.ValueLength)

	tick(s, knob(paramKnobBase+int(ParamProbabilityA), 64))
	assert.InDelta(t, 64.0/127, s.Lane(0).A.Probability, 1e-9)
	assert.Equal(t, 50, s.LastChange().Value)

	tick(s, knob(paramKnobBase+int(ParamBias), 127))
	assert.Equal(t, 1.0, s.Lane(0).Bias)
	assert.Equal(t, 100, s.LastChange().Value)
}

func TestParamRowIsFreeOnDefaultLayout(t *testing.T) {
	s := newSession()
	tick(s, knob(paramKnobBase+int(ParamStepLengthA), 127))
	assert.Equal(t, 8, s.Lane(0).A.StepLength)
	assert.Equal(t, 127, s.State().Knobs[0][paramKnobBase+int(ParamStepLengthA)])
}

func TestResetPutsEveryCursorHome(t *testing.T) {
	s := newSession()
	s.UpdateLane(2, func(l *sequencer.Lane) {
		l.A.Step = 7
		l.A.Value = 5
	})
	s.UpdateLane(5, func(l *sequencer.Lane) {
		l.B.Step = 3
	})
	steps := s.Lane(2).Steps

	s.Tick(Input{Dt: dt, Reset: 10}, nil)
	for i := 0; i < sequencer.NumLanes; i++ {
		l := s.Lane(i)
		assert.Equal(t, 0, l.A.Step)
		assert.Equal(t, 0, l.A.Value)
		assert.Equal(t, 0, l.B.Step)
		assert.Equal(t, 0, l.B.Value)
	}
	assert.Equal(t, steps, s.Lane(2).Steps)
	assert.Equal(t, 8, s.Lane(2).A.StepLength)
}

func TestIndependentBothSidesFire(t *testing.T) {
	s := newSession()
	s.SwitchLayout(1)
	s.UpdateLane(0, func(l *sequencer.Lane) {
		l.Steps[1] = true
		l.Steps[sequencer.HalfSteps+1] = true
	})

	out := s.Tick(Input{Dt: dt, Clock: clock.Shared{A: 10, B: 10, BConnected: true}}, nil)
	assert.True(t, out.FiredA[0])
	assert.True(t, out.FiredB[0])
	assert.Equal(t, 10.0, out.TrigA)
	assert.Equal(t, 10.0, out.TrigB)
	assert.Equal(t, 1, s.Lane(0).A.Value)
	assert.Equal(t, 1, s.Lane(0).B.Value)

	// 1 ms later the pulses are over
	out = s.Tick(Input{Dt: dt, Clock: clock.Shared{A: 10, B: 10, BConnected: true}}, nil)
	assert.False(t, out.FiredA[0])
	assert.Equal(t, 0.0, out.TrigA)
}

func TestSharedClockBFollowsA(t *testing.T) {
	s := newSession()
	s.UpdateLane(3, func(l *sequencer.Lane) {
		l.Steps[sequencer.HalfSteps+1] = true
	})
	out := s.Tick(Input{Dt: dt, Clock: clock.Shared{A: 10}}, nil)
	assert.True(t, out.FiredB[3])
}

func TestExpanderClockOverridesShared(t *testing.T) {
	s := newSession()
	s.UpdateLane(0, func(l *sequencer.Lane) { l.Steps[1] = true })
	s.UpdateLane(1, func(l *sequencer.Lane) { l.Steps[1] = true })

	var in clock.Inputs
	in.ConnectedA[1] = true
	msg := clock.Resolve(7, in)

	out := s.Tick(Input{Dt: dt, Clock: clock.Shared{A: 10}, Expander: &msg}, nil)
	assert.True(t, out.FiredA[0])
	// lane 1 follows its own silent expander clock
	assert.False(t, out.FiredA[1])
}

func TestOutputs(t *testing.T) {
	s := newSession()
	tick(s, gomidi.ControlChange(lcxl.Channel, lcxl.FaderCC(2), 127))
	out := tick(s)
	assert.InDelta(t, 10.0, out.Faders[2], 1e-9)
	assert.Equal(t, 0, out.Lane)
	assert.Equal(t, 0.0, out.CVA)

	s.SwitchLayout(2)
	tick(s, knob(0, 1))
	tick(s, knob(0, 127))
	tick(s, knob(8, 1))
	tick(s, knob(8, 127))
	s.UpdateLane(1, func(l *sequencer.Lane) { l.B.Range = sequencer.Range10V })
	out = tick(s)
	assert.Equal(t, 2, out.Lane)
	assert.InDelta(t, 5.0, out.CVA, 1e-9)
	assert.InDelta(t, 10.0, out.CVB, 1e-9)

	// a pinned output lane ignores the view
	s.SetOutputLane(3)
	s.SwitchLayout(0)
	out = tick(s)
	assert.Equal(t, 3, out.Lane)
	assert.Equal(t, 0.0, out.CVA)
}

func TestStepToggleRecordsChange(t *testing.T) {
	s := newSession()
	s.SwitchLayout(4)
	tick(s, pressButton(9)...)
	assert.True(t, s.Lane(3).Steps[9])
	c := s.LastChange()
	assert.Equal(t, bus.ChangeStepToggle, c.Type)
	assert.Equal(t, 9, c.Step)
	assert.Equal(t, 1, c.Value)
	assert.Equal(t, 4, c.Layout)
}

func TestDeviceHoldSelectsLayout(t *testing.T) {
	s := newSession()
	device := lcxl.ModifierNote(lcxl.Device)

	tick(s, press(device))
	f := s.Render()
	assert.Equal(t, lcxl.GreenFull, f.Button(0))

	tick(s, press(lcxl.ButtonNote(8+2)))
	assert.Equal(t, 3, s.Layout())
	f = s.Render()
	assert.Equal(t, lcxl.GreenFull, f.Button(10))
	assert.Equal(t, lcxl.Off, f.Button(0))

	tick(s, press(lcxl.ButtonNote(0)))
	assert.Equal(t, 0, s.Layout())

	tick(s, release(device))
	tick(s, pressButton(10)...)
	assert.True(t, s.State().Buttons[10])
}

func TestDeviceUtilities(t *testing.T) {
	s := newSession()
	device := lcxl.ModifierNote(lcxl.Device)
	s.SwitchLayout(1)
	tick(s, pressButton(0)...)
	tick(s, pressButton(5)...)

	tick(s, press(device), press(lcxl.ButtonNote(int(UtilityCopy))))
	assert.Equal(t, bus.ChangeUtility, s.LastChange().Type)
	tick(s, press(lcxl.ButtonNote(8+1)))
	require.Equal(t, 2, s.Layout())
	tick(s, press(lcxl.ButtonNote(int(UtilityPaste))))
	assert.Equal(t, s.Lane(0).Steps, s.Lane(1).Steps)

	tick(s, press(lcxl.ButtonNote(int(UtilityInvert))))
	assert.False(t, s.Lane(1).Steps[0])
	assert.True(t, s.Lane(1).Steps[1])

	tick(s, press(lcxl.ButtonNote(int(UtilityClear))))
	cleared := s.Lane(1)
	assert.Equal(t, uint16(0), cleared.Pattern())

	tick(s, press(lcxl.ButtonNote(int(UtilityRandomValues))))
	changed := 0
	for i := 0; i < sequencer.NumSteps; i++ {
		v := s.State().Knobs[2][i]
		assert.True(t, v >= 0 && v < 127)
		if v != 0 {
			changed++
		}
	}
	assert.Greater(t, changed, 0)
	assert.Equal(t, 0, s.State().Knobs[2][paramKnobBase])
}

func TestUtilitiesNeedALane(t *testing.T) {
	s := newSession()
	s.RunUtility(UtilityRandomSteps)
	assert.Equal(t, bus.ChangeNone, s.LastChange().Type)
}

func TestRecordArmModes(t *testing.T) {
	s := newSession()
	arm := lcxl.ModifierNote(lcxl.RecordArm)
	s.SwitchLayout(1)

	tick(s, press(arm), press(lcxl.ButtonNote(2)))
	assert.Equal(t, sequencer.APriority, s.Lane(0).Competition)
	assert.Equal(t, bus.Change{Type: bus.ChangeCompetition, Layout: 1, Value: 2, Timestamp: s.LastChange().Timestamp}, s.LastChange())

	tick(s, press(lcxl.ButtonNote(8)))
	assert.Equal(t, sequencer.Range10V, s.Lane(0).A.Range)
	tick(s, press(lcxl.ButtonNote(13)))
	assert.True(t, s.Lane(0).B.Bipolar)

	f := s.Render()
	assert.Equal(t, lcxl.GreenFull, f.Button(2))
	assert.Equal(t, lcxl.AmberFull, f.Button(8))
	assert.Equal(t, lcxl.GreenFull, f.Button(9))
	assert.Equal(t, lcxl.GreenFull, f.Button(12))
	assert.Equal(t, lcxl.RedFull, f.Button(13))
	assert.Equal(t, lcxl.Off, f.Button(10))

	// single mode edits the routing mode instead
	s.UpdateLane(0, func(l *sequencer.Lane) { l.SetStepLengthA(12) })
	tick(s, press(lcxl.ButtonNote(5)))
	assert.Equal(t, sequencer.Burst, s.Lane(0).Routing)
	assert.Equal(t, sequencer.APriority, s.Lane(0).Competition)

	// nothing toggled the pattern while armed
	lane := s.Lane(0)
	assert.Equal(t, uint16(0), lane.Pattern())

	tick(s, gomidi.NoteOn(lcxl.Channel, arm, 0))
	_, held := s.Held()
	assert.False(t, held)
}

func TestLaneLEDs(t *testing.T) {
	s := newSession()
	s.SwitchLayout(1)
	s.UpdateLane(0, func(l *sequencer.Lane) {
		l.Steps[0] = true
		l.Steps[3] = true
		l.B.Step = 2
	})
	f := s.Render()
	assert.Equal(t, lcxl.GreenFull, f.Button(0))
	assert.Equal(t, lcxl.Off, f.Button(1))
	assert.Equal(t, lcxl.GreenLow, f.Button(3))
	assert.Equal(t, lcxl.RedLow, f.Button(8+2))
	assert.Equal(t, lcxl.Off, f.Button(8+5))

	// value knobs: cursor bright, rest dim, past the length off
	assert.Equal(t, lcxl.GreenFull, f.Knob(0))
	assert.Equal(t, lcxl.GreenLow, f.Knob(1))
	assert.Equal(t, lcxl.GreenFull, f.Knob(8))
	assert.Equal(t, lcxl.Off, f.Knob(8+4))
	assert.Equal(t, lcxl.GreenFull, f.Knob(paramKnobBase))

	s.UpdateLane(0, func(l *sequencer.Lane) { l.SetValueLengthB(0) })
	f = s.Render()
	assert.Equal(t, lcxl.Off, f.Knob(8))
}

func TestPublishSnapshot(t *testing.T) {
	s := newSession()
	port := bus.NewPort(bus.Empty())
	s.UpdateLane(0, func(l *sequencer.Lane) { l.Steps[1] = true })

	s.Tick(Input{Dt: dt, Clock: clock.Shared{A: 10}}, port)
	assert.False(t, port.Consumer().Valid())
	require.True(t, port.Flip())

	snap := port.Consumer()
	assert.Equal(t, int64(1), snap.Owner)
	assert.True(t, snap.Lanes[0].FiredA)
	assert.Equal(t, 1, snap.Lanes[0].StepA)
}

func TestRestore(t *testing.T) {
	s := newSession()
	st := NewState()
	st.Layout = 5
	st.Knobs[5][0] = 99
	st.Lanes[4].A.Step = 3
	s.Restore(st)

	assert.Equal(t, 5, s.Layout())
	assert.Equal(t, 0, s.Lane(4).A.Step)
	assert.Equal(t, 99, s.State().Knobs[5][0])
	tick(s, knob(0, 20))
	assert.Equal(t, 99, s.State().Knobs[5][0])
}
