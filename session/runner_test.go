package session

import (
	"errors"
	"testing"

	"lcxl-sequence/bus"
	"lcxl-sequence/lcxl"
	"lcxl-sequence/midi"
	"lcxl-sequence/sequencer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

type fakeSurface struct {
	in   chan gomidi.Message
	sent []gomidi.Message

	// failAt makes the nth Send fail, counting from 1
	failAt int
	calls  int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{in: make(chan gomidi.Message, 16)}
}

func (f *fakeSurface) ID() string                      { return "fake lcxl" }
func (f *fakeSurface) Type() midi.ControllerType       { return midi.ControllerLaunchControl }
func (f *fakeSurface) Messages() <-chan gomidi.Message { return f.in }
func (f *fakeSurface) Close() error                    { return nil }

func (f *fakeSurface) Send(msg gomidi.Message) error {
	f.calls++
	if f.calls == f.failAt {
		return errors.New("port gone")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeGates struct {
	levels midi.Gates
}

func (f *fakeGates) ID() string                      { return "fake gates" }
func (f *fakeGates) Type() midi.ControllerType       { return midi.ControllerGates }
func (f *fakeGates) Messages() <-chan gomidi.Message { return nil }
func (f *fakeGates) Send(msg gomidi.Message) error   { return nil }
func (f *fakeGates) Close() error                    { return nil }
func (f *fakeGates) Levels() midi.Gates              { return f.levels }

type recorder struct {
	seen []int64
}

func (r *recorder) Kind() bus.Kind                 { return bus.KindInfo }
func (r *recorder) Accepts(upstream bus.Kind) bool { return true }
func (r *recorder) Process(in *bus.Snapshot, dt float64) {
	if in == nil {
		r.seen = append(r.seen, bus.NoOwner)
		return
	}
	r.seen = append(r.seen, in.Owner)
}

func unpatched() Patching {
	p := Patching{ClockA: -1, ClockB: -1, Reset: -1, TickRate: 1000}
	for i := range p.LaneA {
		p.LaneA[i] = -1
		p.LaneB[i] = -1
	}
	return p
}

func TestRunnerDrivesSurface(t *testing.T) {
	s := newSession()
	chain := bus.NewChain()
	rec := &recorder{}
	chain.Append(rec)
	r := NewRunner(s, chain, unpatched())

	surface := newFakeSurface()
	r.Attach(midi.DeviceEvent{Type: midi.DeviceConnected, Kind: midi.ControllerLaunchControl, Controller: surface, ID: surface.ID()})

	surface.in <- gomidi.ControlChange(lcxl.Channel, lcxl.FaderCC(0), 127)
	r.Step(dt)
	require.Len(t, surface.sent, 2+lcxl.NumLEDs)

	v := r.View()
	assert.Equal(t, "fake lcxl", v.Surface)
	assert.True(t, v.TakenOver)
	assert.Equal(t, 127, v.State.Faders[0])
	assert.Nil(t, v.Out.Send)

	r.Step(dt)
	// the satellite sees the first publish one tick later
	assert.Equal(t, []int64{bus.NoOwner, 1}, rec.seen)

	r.Attach(midi.DeviceEvent{Type: midi.DeviceDisconnected, Kind: midi.ControllerLaunchControl, ID: surface.ID()})
	r.Step(dt)
	v = r.View()
	assert.Empty(t, v.Surface)
	assert.False(t, v.TakenOver)
}

func TestRunnerRepaintsAfterSendFailure(t *testing.T) {
	s := newSession()
	r := NewRunner(s, bus.NewChain(), unpatched())

	surface := newFakeSurface()
	surface.failAt = 5
	r.Attach(midi.DeviceEvent{Type: midi.DeviceConnected, Kind: midi.ControllerLaunchControl, Controller: surface, ID: surface.ID()})

	r.Step(dt)
	assert.Len(t, surface.sent, 4)

	surface.sent = nil
	r.Step(dt)
	assert.Len(t, surface.sent, lcxl.NumLEDs)

	// healed, back to diffs only
	surface.sent = nil
	r.Step(dt)
	assert.Empty(t, surface.sent)
}

func TestRunnerGateClocks(t *testing.T) {
	s := newSession()
	p := unpatched()
	p.ClockA = 36
	p.Reset = 38
	r := NewRunner(s, bus.NewChain(), p)

	gates := &fakeGates{}
	r.Attach(midi.DeviceEvent{Type: midi.DeviceConnected, Kind: midi.ControllerGates, Controller: gates, ID: gates.ID()})

	for i := 0; i < 3; i++ {
		gates.levels[36] = 10
		r.Step(dt)
		gates.levels[36] = 0
		r.Step(dt)
	}
	assert.Equal(t, 3, s.Lane(0).A.Step)

	gates.levels[38] = 10
	r.Step(dt)
	assert.Equal(t, 0, s.Lane(0).A.Step)
}

func TestRunnerLaneClockExpander(t *testing.T) {
	s := newSession()
	p := unpatched()
	p.LaneA[2] = 40
	r := NewRunner(s, bus.NewChain(), p)
	require.NotNil(t, r.expander)

	gates := &fakeGates{}
	r.Attach(midi.DeviceEvent{Type: midi.DeviceConnected, Kind: midi.ControllerGates, Controller: gates, ID: gates.ID()})

	gates.levels[40] = 10
	r.Step(dt)
	// the expander publishes one tick ahead of the controller reading it
	assert.Equal(t, 0, s.Lane(2).A.Step)
	r.Step(dt)
	assert.Equal(t, 1, s.Lane(2).A.Step)
	// lane 3 chains back to lane 2's clock
	assert.Equal(t, 1, s.Lane(3).A.Step)
	// lanes below the patched one stay on the shared clock
	assert.Equal(t, 0, s.Lane(1).A.Step)
}

func TestRunnerInternalClock(t *testing.T) {
	s := newSession()
	p := unpatched()
	p.InternalBPM = 150
	r := NewRunner(s, bus.NewChain(), p)

	// 150 BPM sixteenths are 100 ms apart
	for i := 0; i < 950; i++ {
		r.Step(dt)
	}
	l := s.Lane(0)
	assert.Equal(t, 10%l.A.StepLength, l.A.Step)
}

func TestRunnerDo(t *testing.T) {
	s := newSession()
	r := NewRunner(s, bus.NewChain(), unpatched())
	r.Do(func(s *Session) { s.SwitchLayout(4) })
	assert.Equal(t, 4, r.View().State.Layout)

	select {
	case <-r.UpdateChan:
	default:
		t.Fatal("no update notification")
	}

	r.Inspect(func(s *Session, chain *bus.Chain) {
		assert.Empty(t, chain.Consumers())
		assert.Equal(t, sequencer.NumLanes, len(s.State().Lanes))
	})
}
