package satellite

import (
	"fmt"

	"lcxl-sequence/bus"
	"lcxl-sequence/sequencer"
)

// Light is one bicolor step light.
type Light struct {
	Green, Red float64
}

// Steps shows the 16 steps of every lane.
type Steps struct {
	Lights    [sequencer.NumLanes][sequencer.NumSteps]Light
	Connected bool
}

func (s *Steps) Kind() bus.Kind { return bus.KindSteps }

func (s *Steps) Accepts(upstream bus.Kind) bool { return acceptsAny(upstream) }

func (s *Steps) Process(in *bus.Snapshot, dt float64) {
	s.Connected = in != nil
	if in == nil {
		s.Lights = [sequencer.NumLanes][sequencer.NumSteps]Light{}
		return
	}
	for lane := range in.Lanes {
		l := &in.Lanes[lane]
		for step := 0; step < sequencer.NumSteps; step++ {
			s.Lights[lane][step] = stepLight(l, step)
		}
	}
}

func stepLight(l *bus.LaneData, step int) Light {
	cursor, length, pos := l.StepA, l.StepLengthA, step
	if !l.StepSingle && step >= sequencer.HalfSteps {
		cursor, length, pos = l.StepB, l.StepLengthB, step-sequencer.HalfSteps
	}
	active := l.Steps[step]
	switch {
	case pos >= length:
		return Light{}
	case pos == cursor && active:
		return Light{Green: 1}
	case pos == cursor:
		return Light{Red: 0.3}
	case active:
		return Light{Green: 0.3}
	}
	return Light{}
}

// Info shows the last edit as three lines of text. It keeps the last
// lines while no edit has happened yet.
type Info struct {
	Lines     [3]string
	Connected bool
}

func (i *Info) Kind() bus.Kind { return bus.KindInfo }

func (i *Info) Accepts(upstream bus.Kind) bool { return acceptsAny(upstream) }

func (i *Info) Process(in *bus.Snapshot, dt float64) {
	i.Connected = in != nil
	if in == nil {
		i.Lines = [3]string{}
		return
	}
	c := in.LastChange
	if c.Type == bus.ChangeNone {
		return
	}
	i.Lines = [3]string{LayoutName(c.Layout), c.Type.String(), ValueText(c)}
}

// LayoutName is "Default" for layout 0 and "Seq N" for lanes.
func LayoutName(layout int) string {
	if layout == 0 {
		return "Default"
	}
	return fmt.Sprintf("Seq %d", layout)
}

var utilityNames = [...]string{"", "Copy", "Paste", "Clear", "Randomize", "Rand Values", "Invert", "Reset"}

// ValueText formats a change value for display.
func ValueText(c bus.Change) string {
	switch c.Type {
	case bus.ChangeLayout:
		return LayoutName(c.Value)
	case bus.ChangeValueLengthA, bus.ChangeValueLengthB, bus.ChangeStepLengthA, bus.ChangeStepLengthB:
		return fmt.Sprint(c.Value)
	case bus.ChangeProbabilityA, bus.ChangeProbabilityB, bus.ChangeBias:
		return fmt.Sprintf("%d%%", c.Value)
	case bus.ChangeVoltageA, bus.ChangeVoltageB:
		if c.Value < 0 || c.Value >= int(sequencer.NumRanges) {
			return "?"
		}
		return sequencer.Range(c.Value).String()
	case bus.ChangeBipolarA, bus.ChangeBipolarB:
		if c.Value != 0 {
			return "On"
		}
		return "Off"
	case bus.ChangeCompetition:
		if c.Value < 0 || c.Value >= int(sequencer.NumCompetitionModes) {
			return "?"
		}
		return sequencer.CompetitionMode(c.Value).String()
	case bus.ChangeRouting:
		if c.Value < 0 || c.Value >= int(sequencer.NumRoutingModes) {
			return "?"
		}
		return sequencer.RoutingMode(c.Value).String()
	case bus.ChangeStepToggle:
		state := "Off"
		if c.Value != 0 {
			state = "On"
		}
		return fmt.Sprintf("Step %d %s", c.Step+1, state)
	case bus.ChangeUtility:
		if c.Value > 0 && c.Value < len(utilityNames) {
			return utilityNames[c.Value]
		}
	}
	return fmt.Sprint(c.Value)
}
