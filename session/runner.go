package session

import (
	"context"
	"sync"
	"time"

	"lcxl-sequence/bus"
	"lcxl-sequence/clock"
	"lcxl-sequence/debug"
	"lcxl-sequence/midi"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// UI refresh rate
const uiFPS = 30

// Most inbound messages handled in one tick; the rest wait for the next.
const maxDrain = 512

// Patching maps gate notes onto the clock jacks. A negative note is
// unpatched.
type Patching struct {
	ClockA, ClockB int
	Reset          int
	LaneA, LaneB   [8]int
	InternalBPM    float64
	TickRate       int
}

// Runner drives a Session from wall-clock time and owns its devices. Every
// access to the session goes through the runner's lock.
type Runner struct {
	mu       sync.Mutex
	session  *Session
	chain    *bus.Chain
	expander *clock.Expander
	internal clock.Internal
	patch    Patching

	surface midi.Controller
	gates   midi.GateSource
	gateID  string
	inbox   []gomidi.Message

	last  Output
	ticks uint64

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewRunner wires s to chain. A clock expander is added when any lane clock
// is patched.
func NewRunner(s *Session, chain *bus.Chain, p Patching) *Runner {
	if p.TickRate <= 0 {
		p.TickRate = 1000
	}
	r := &Runner{
		session:    s,
		chain:      chain,
		patch:      p,
		internal:   clock.Internal{BPM: p.InternalBPM},
		UpdateChan: make(chan struct{}, 1),
	}
	for i := range p.LaneA {
		if midi.Connected(p.LaneA[i]) || midi.Connected(p.LaneB[i]) {
			r.expander = clock.NewExpander(s.ID() + 1)
			break
		}
	}
	return r
}

// Attach handles a hot-plug event from the DeviceManager
func (r *Runner) Attach(ev midi.DeviceEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Type {
	case midi.DeviceConnected:
		switch ev.Kind {
		case midi.ControllerLaunchControl:
			r.surface = ev.Controller
		case midi.ControllerGates:
			if g, ok := ev.Controller.(midi.GateSource); ok {
				r.gates = g
				r.gateID = ev.ID
			}
		}
	case midi.DeviceDisconnected:
		if r.surface != nil && r.surface.ID() == ev.ID {
			r.surface = nil
		}
		if r.gateID == ev.ID {
			r.gates = nil
			r.gateID = ""
		}
	}
	debug.Log("runner", "device event %v %s", ev.Type, ev.ID)
}

// Run ticks until ctx is done (blocking - run in goroutine)
func (r *Runner) Run(ctx context.Context) {
	period := time.Second / time.Duration(r.patch.TickRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	ui := time.NewTicker(time.Second / uiFPS)
	defer ui.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			r.Step(min(dt, 0.05))
		case <-ui.C:
			r.notifyUpdate()
		}
	}
}

// Step runs one tick of dt seconds.
func (r *Runner) Step(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	in := Input{Dt: dt}
	if r.surface != nil {
		r.inbox = drain(r.surface.Messages(), r.inbox[:0], maxDrain)
		in.Messages = r.inbox
		in.Output = r.surface.ID()
	}

	var gates midi.Gates
	if r.gates != nil {
		gates = r.gates.Levels()
	}
	p := &r.patch
	if midi.Connected(p.ClockA) {
		in.Clock.A = gates.Level(p.ClockA)
	} else {
		in.Clock.A = r.internal.Process(dt)
	}
	in.Clock.B = gates.Level(p.ClockB)
	in.Clock.BConnected = midi.Connected(p.ClockB)
	in.Reset = gates.Level(p.Reset)

	if r.expander != nil {
		var lanes clock.Inputs
		for i := range lanes.A {
			lanes.A[i] = gates.Level(p.LaneA[i])
			lanes.B[i] = gates.Level(p.LaneB[i])
			lanes.ConnectedA[i] = midi.Connected(p.LaneA[i])
			lanes.ConnectedB[i] = midi.Connected(p.LaneB[i])
		}
		r.expander.Publish(lanes)
		in.Expander = r.expander.Port().Consumer()
	}

	out := r.session.Tick(in, r.chain.Head())
	if r.surface != nil {
		for _, msg := range out.Send {
			if err := r.surface.Send(msg); err != nil {
				debug.LogEvery(100, "midi", "send failed: %v", err)
				r.session.Repaint()
				break
			}
		}
	}

	r.chain.Step(dt)
	r.chain.Flip()
	if r.expander != nil {
		r.expander.Port().Flip()
	}

	r.last = *out
	r.last.Send = nil
	r.ticks++
}

func drain(ch <-chan gomidi.Message, buf []gomidi.Message, limit int) []gomidi.Message {
	for len(buf) < limit {
		select {
		case msg, ok := <-ch:
			if !ok {
				return buf
			}
			buf = append(buf, msg)
		default:
			return buf
		}
	}
	return buf
}

// Do runs fn against the session between ticks
func (r *Runner) Do(fn func(s *Session)) {
	r.mu.Lock()
	fn(r.session)
	r.mu.Unlock()
	r.notifyUpdate()
}

// Inspect runs fn with the session and its satellites between ticks
func (r *Runner) Inspect(fn func(s *Session, chain *bus.Chain)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.session, r.chain)
}

// View is a copy of what the front end draws
type View struct {
	State     State
	Out       Output
	Frame     Frame
	Change    bus.Change
	TakenOver bool
	Surface   string
	Gates     string
	Device    bool
	RecordArm bool
	Ticks     uint64
}

// View copies the current state for display
func (r *Runner) View() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := View{
		State:     r.session.State(),
		Out:       r.last,
		Frame:     r.session.Render(),
		Change:    r.session.LastChange(),
		TakenOver: r.session.TakenOver(),
		Gates:     r.gateID,
		Ticks:     r.ticks,
	}
	v.Device, v.RecordArm = r.session.Held()
	if r.surface != nil {
		v.Surface = r.surface.ID()
	}
	return v
}

func (r *Runner) notifyUpdate() {
	select {
	case r.UpdateChan <- struct{}{}:
	default:
	}
}
