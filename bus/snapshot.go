package bus

import (
	"lcxl-sequence/lcxl"
	"lcxl-sequence/sequencer"
)

// NumLayouts is the default layout plus one per lane.
const NumLayouts = sequencer.NumLanes + 1

// NoOwner marks a snapshot that has never been published.
const NoOwner int64 = -1

// ChangeType names the most recent user edit.
type ChangeType int

const (
	ChangeNone ChangeType = iota
	ChangeLayout
	ChangeValueLengthA
	ChangeValueLengthB
	ChangeStepLengthA
	ChangeStepLengthB
	ChangeProbabilityA
	ChangeProbabilityB
	ChangeBias
	ChangeVoltageA
	ChangeVoltageB
	ChangeBipolarA
	ChangeBipolarB
	ChangeCompetition
	ChangeRouting
	ChangeStepToggle
	ChangeUtility
)

var changeNames = []string{
	"", "Layout", "Val Len A", "Val Len B", "Step Len A", "Step Len B",
	"Prob A", "Prob B", "Bias", "Voltage A", "Voltage B",
	"Bipolar A", "Bipolar B", "Comp Mode", "Route Mode", "Step", "Utility",
}

func (c ChangeType) String() string {
	if c < 0 || int(c) >= len(changeNames) {
		return ""
	}
	return changeNames[c]
}

// Change describes the last edit for display.
type Change struct {
	Type      ChangeType
	Layout    int
	Value     int
	Step      int
	Timestamp float64
}

// LaneData is the per-lane playback state carried on the bus.
type LaneData struct {
	Steps          [sequencer.NumSteps]bool
	StepA, StepB   int
	ValueA, ValueB int
	StepLengthA    int
	StepLengthB    int
	ValueLengthA   int
	ValueLengthB   int
	FiredA, FiredB bool
	StepSingle     bool
	ValueSingle    bool
	RangeA, RangeB sequencer.Range
	BipolarA       bool
	BipolarB       bool
	Competition    sequencer.CompetitionMode
	Routing        sequencer.RoutingMode
	PendingEchoA   bool
	PendingEchoB   bool
}

// Snapshot is the controller state published once per tick.
type Snapshot struct {
	Owner      int64
	Layout     int
	Faders     [lcxl.NumFaders]int
	Knobs      [NumLayouts][lcxl.NumKnobs]int
	Buttons    [lcxl.NumButtons]bool
	Lanes      [sequencer.NumLanes]LaneData
	LastChange Change
}

// Empty returns a snapshot with no owner.
func Empty() Snapshot {
	return Snapshot{Owner: NoOwner}
}

// Valid reports whether a controller has published into s.
func (s *Snapshot) Valid() bool {
	return s.Owner >= 0
}

// LaneFrom copies the bus view of a lane.
func LaneFrom(l *sequencer.Lane) LaneData {
	return LaneData{
		Steps:        l.Steps,
		StepA:        l.A.Step,
		StepB:        l.B.Step,
		ValueA:       l.A.Value,
		ValueB:       l.B.Value,
		StepLengthA:  l.A.StepLength,
		StepLengthB:  l.B.StepLength,
		ValueLengthA: l.A.ValueLength,
		ValueLengthB: l.B.ValueLength,
		FiredA:       l.FiredA,
		FiredB:       l.FiredB,
		StepSingle:   l.StepSingleMode(),
		ValueSingle:  l.ValueSingleMode(),
		RangeA:       l.A.Range,
		RangeB:       l.B.Range,
		BipolarA:     l.A.Bipolar,
		BipolarB:     l.B.Bipolar,
		Competition:  l.Competition,
		Routing:      l.Routing,
		PendingEchoA: l.PendingEchoA,
		PendingEchoB: l.PendingEchoB,
	}
}
