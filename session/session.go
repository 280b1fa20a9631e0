// Package session is the controller session: it turns Launch Control XL
// input into lane edits, clocks the eight lanes, drives the surface LEDs and
// publishes a snapshot onto the expander bus once per tick.
package session

import (
	"lcxl-sequence/bus"
	"lcxl-sequence/clock"
	"lcxl-sequence/debug"
	"lcxl-sequence/lcxl"
	"lcxl-sequence/sequencer"
	"lcxl-sequence/signal"
	"lcxl-sequence/takeover"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Amber length markers stay lit this long after a length edit.
const AmberWindow = 0.2

// Length timers, one per length parameter.
const (
	timerValueA = iota
	timerValueB
	timerStepA
	timerStepB
	numTimers
)

// State is everything a patch persists.
type State struct {
	Layout     int
	OutputLane int // 0 follows the viewed layout
	Faders     [lcxl.NumFaders]int
	Knobs      [bus.NumLayouts][lcxl.NumKnobs]int
	Buttons    [lcxl.NumButtons]bool
	Lanes      [sequencer.NumLanes]sequencer.Lane
}

// NewState returns the power-on state.
func NewState() State {
	var st State
	for i := range st.Lanes {
		st.Lanes[i] = sequencer.NewLane()
	}
	return st
}

// Input is what one tick consumes.
type Input struct {
	Dt       float64
	Messages []gomidi.Message
	Clock    clock.Shared
	Reset    float64
	// Expander is the clock expander's view, nil when none is plugged in.
	Expander *clock.Message
	// Output is the identity of the connected surface output, "" if none.
	Output string
}

// Output is what one tick produces.
type Output struct {
	Faders     [lcxl.NumFaders]float64
	TrigA      float64
	TrigB      float64
	CVA        float64
	CVB        float64
	Lane       int // lane driving TrigA/TrigB/CVA/CVB, 0 when none
	Send       []gomidi.Message
	FiredA     [sequencer.NumLanes]bool
	FiredB     [sequencer.NumLanes]bool
	LEDChanges int
}

// Config sets up a Session.
type Config struct {
	ID       int64
	Channel  uint8
	Template uint8
	Rand     sequencer.Rand
}

// Session owns the lanes and knob bank. It is not safe for concurrent use;
// the Runner serializes access.
type Session struct {
	id       int64
	channel  uint8
	template uint8
	rng      sequencer.Rand

	state    State
	takeover *takeover.Tracker

	clock      float64
	lengthEdit [numTimers]float64

	deviceHeld bool
	recArmHeld bool

	clockA, clockB [sequencer.NumLanes]signal.Schmitt
	reset          signal.Schmitt
	pulseA, pulseB [sequencer.NumLanes]signal.Pulse

	copied  sequencer.Lane
	hasCopy bool

	lastChange bus.Change

	outputID          string
	takenOver         bool
	takeoverRequested bool
	shown             [lcxl.NumLEDs]lcxl.Color
	repaint           bool

	out Output
}

// New returns a session in the power-on state.
func New(cfg Config) *Session {
	if cfg.Rand == nil {
		cfg.Rand = sequencer.NewRand(0)
	}
	s := &Session{
		id:       cfg.ID,
		channel:  cfg.Channel,
		template: cfg.Template,
		rng:      cfg.Rand,
		state:    NewState(),
		takeover: takeover.New(),
	}
	for i := range s.lengthEdit {
		s.lengthEdit[i] = -1
	}
	return s
}

// ID is the owner id stamped on published snapshots.
func (s *Session) ID() int64 {
	return s.id
}

// State returns a copy of the persistent state.
func (s *Session) State() State {
	return s.state
}

// Restore replaces the persistent state. Cursors restart and every knob must
// be picked up again.
func (s *Session) Restore(st State) {
	st.Layout = clampLayout(st.Layout)
	st.OutputLane = clampLayout(st.OutputLane)
	s.state = st
	for i := range s.state.Lanes {
		s.state.Lanes[i].ResetCursors()
		s.state.Lanes[i].ClearFired()
	}
	s.takeover.Release()
	s.repaint = true
	debug.Log("session", "state restored, layout=%d", st.Layout)
}

// Layout returns the viewed layout, 0 for default and 1-8 for lanes.
func (s *Session) Layout() int {
	return s.state.Layout
}

// Lane returns a copy of lane i (0-7).
func (s *Session) Lane(i int) sequencer.Lane {
	return s.state.Lanes[i]
}

// UpdateLane runs fn against lane i (0-7).
func (s *Session) UpdateLane(i int, fn func(l *sequencer.Lane)) {
	if i < 0 || i >= sequencer.NumLanes {
		return
	}
	fn(&s.state.Lanes[i])
}

// SetOutputLane picks the lane on the main outputs, 0 to follow the view.
func (s *Session) SetOutputLane(n int) {
	s.state.OutputLane = clampLayout(n)
}

// LastChange is the most recent edit.
func (s *Session) LastChange() bus.Change {
	return s.lastChange
}

// TakenOver reports whether the surface was initialized and is still there.
func (s *Session) TakenOver() bool {
	return s.takenOver
}

// Takeover re-runs the surface initialization on the next tick.
func (s *Session) Takeover() {
	s.takeoverRequested = true
}

// Repaint resends every LED on the next tick.
func (s *Session) Repaint() {
	s.repaint = true
}

// Held reports the Device and Record Arm modifiers.
func (s *Session) Held() (device, recordArm bool) {
	return s.deviceHeld, s.recArmHeld
}

// KnobSync reports the takeover state of knob k on the current layout.
func (s *Session) KnobSync(k int) takeover.Sync {
	if k < 0 || k >= lcxl.NumKnobs {
		return takeover.InSync
	}
	return s.takeover.State(k, s.state.Knobs[s.state.Layout][k])
}

// Tick runs one processing step and publishes into port when it is non-nil.
// The returned Output is reused on the next call.
func (s *Session) Tick(in Input, port *bus.Port[bus.Snapshot]) *Output {
	s.out.Send = s.out.Send[:0]
	s.out.LEDChanges = 0
	for i := range s.state.Lanes {
		s.state.Lanes[i].ClearFired()
	}

	s.clock += in.Dt
	s.pollDevice(in.Output)
	if s.expireTimers() {
		debug.Log("led", "amber marker expired")
	}

	for _, msg := range in.Messages {
		s.handle(msg)
	}

	for i, v := range s.state.Faders {
		s.out.Faders[i] = float64(v) / 127 * 10
	}

	if s.reset.Process(in.Reset) {
		s.ResetPlayheads()
	}

	s.clockLanes(in)
	s.computeOutputs(in.Dt)

	if s.outputID != "" && s.takenOver {
		s.flushLEDs()
	}

	if port != nil {
		s.publish(port.Producer())
		port.RequestFlip()
	}
	return &s.out
}

// ResetPlayheads moves every cursor of every lane to 0.
func (s *Session) ResetPlayheads() {
	for i := range s.state.Lanes {
		s.state.Lanes[i].ResetCursors()
	}
}

func (s *Session) clockLanes(in Input) {
	for i := range s.state.Lanes {
		l := &s.state.Lanes[i]
		a, b := clock.Sources(i, in.Clock, in.Expander)
		var fire sequencer.Fire
		if s.clockA[i].Process(a) {
			f := l.ClockA(s.rng)
			fire.A = fire.A || f.A
			fire.B = fire.B || f.B
		}
		if s.clockB[i].Process(b) {
			f := l.ClockB(s.rng)
			fire.A = fire.A || f.A
			fire.B = fire.B || f.B
		}
		if fire.A {
			s.pulseA[i].Trigger(signal.TriggerDuration)
		}
		if fire.B {
			s.pulseB[i].Trigger(signal.TriggerDuration)
		}
		s.out.FiredA[i] = fire.A
		s.out.FiredB[i] = fire.B
	}
}

func (s *Session) computeOutputs(dt float64) {
	var trigA, trigB [sequencer.NumLanes]bool
	for i := range s.pulseA {
		trigA[i] = s.pulseA[i].Process(dt)
		trigB[i] = s.pulseB[i].Process(dt)
	}

	n := s.outputLane()
	s.out.Lane = n
	if n == 0 {
		s.out.TrigA, s.out.TrigB, s.out.CVA, s.out.CVB = 0, 0, 0, 0
		return
	}
	l := &s.state.Lanes[n-1]
	knobs := &s.state.Knobs[n]
	s.out.TrigA = signal.Voltage(trigA[n-1])
	s.out.TrigB = signal.Voltage(trigB[n-1])
	s.out.CVA = sequencer.KnobToVoltage(knobs[l.ValueIndex(sequencer.SideA)], l.A.Range, l.A.Bipolar)
	s.out.CVB = sequencer.KnobToVoltage(knobs[l.ValueIndex(sequencer.SideB)], l.B.Range, l.B.Bipolar)
}

// outputLane is the layout feeding the main outputs, 0 when none.
func (s *Session) outputLane() int {
	if s.state.OutputLane > 0 {
		return s.state.OutputLane
	}
	return s.state.Layout
}

func (s *Session) publish(dst *bus.Snapshot) {
	dst.Owner = s.id
	dst.Layout = s.state.Layout
	dst.Faders = s.state.Faders
	dst.Knobs = s.state.Knobs
	dst.Buttons = s.state.Buttons
	for i := range s.state.Lanes {
		dst.Lanes[i] = bus.LaneFrom(&s.state.Lanes[i])
	}
	dst.LastChange = s.lastChange
}

func (s *Session) send(msg gomidi.Message) {
	s.out.Send = append(s.out.Send, msg)
}

// pollDevice runs the surface initialization when the output identity
// changes to a new device or a takeover was requested.
func (s *Session) pollDevice(id string) {
	if id != s.outputID {
		s.outputID = id
		if id == "" {
			s.takenOver = false
			debug.Log("session", "output device lost")
		} else {
			debug.Log("session", "output device %q connected", id)
			s.initializeDevice()
		}
	}
	if s.takeoverRequested {
		s.takeoverRequested = false
		if s.outputID != "" {
			s.initializeDevice()
		}
	}
}

func (s *Session) initializeDevice() {
	s.send(lcxl.TemplateMessage(s.template))
	s.send(lcxl.ResetMessage(s.channel))
	for i := range s.shown {
		s.shown[i] = lcxl.Off
	}
	s.takenOver = true
	s.repaint = true
}

// expireTimers clears elapsed amber timers and reports whether any did.
func (s *Session) expireTimers() bool {
	expired := false
	for i, t := range s.lengthEdit {
		if t >= 0 && s.clock-t >= AmberWindow {
			s.lengthEdit[i] = -1
			expired = true
		}
	}
	return expired
}

func (s *Session) startTimer(i int) {
	s.lengthEdit[i] = s.clock
}

func (s *Session) amber(i int) bool {
	t := s.lengthEdit[i]
	return t >= 0 && s.clock-t < AmberWindow
}

func (s *Session) record(t bus.ChangeType, value int) {
	s.recordStep(t, value, 0)
}

func (s *Session) recordStep(t bus.ChangeType, value, step int) {
	s.lastChange = bus.Change{
		Type:      t,
		Layout:    s.state.Layout,
		Value:     value,
		Step:      step,
		Timestamp: s.clock,
	}
}

func clampLayout(n int) int {
	if n < 0 || n >= bus.NumLayouts {
		return 0
	}
	return n
}
