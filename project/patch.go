// Package project persists sessions: timestamped JSON project saves and
// YAML lane presets.
package project

import (
	"lcxl-sequence/bus"
	"lcxl-sequence/lcxl"
	"lcxl-sequence/sequencer"
	"lcxl-sequence/session"
)

// Version is written into every patch.
const Version = 1

// Patch is the saved form of a session.
type Patch struct {
	Version      int                                `json:"version"`
	Layout       int                                `json:"layout"`
	OutputLane   int                                `json:"outputLane"`
	Knobs        [bus.NumLayouts][lcxl.NumKnobs]int `json:"knobs"`
	Faders       [lcxl.NumFaders]int                `json:"faders"`
	Buttons      [lcxl.NumButtons]bool              `json:"buttons"`
	Lanes        [sequencer.NumLanes]LanePatch      `json:"lanes"`
	InputDevice  string                             `json:"inputDevice,omitempty"`
	OutputDevice string                             `json:"outputDevice,omitempty"`
}

// LanePatch is one lane's settings. Steps are packed, bit i is step i.
type LanePatch struct {
	Steps        uint16  `json:"steps" yaml:"steps"`
	StepLengthA  int     `json:"stepLengthA" yaml:"stepLengthA"`
	StepLengthB  int     `json:"stepLengthB" yaml:"stepLengthB"`
	ValueLengthA int     `json:"valueLengthA" yaml:"valueLengthA"`
	ValueLengthB int     `json:"valueLengthB" yaml:"valueLengthB"`
	ProbabilityA float64 `json:"probabilityA" yaml:"probabilityA"`
	ProbabilityB float64 `json:"probabilityB" yaml:"probabilityB"`
	Bias         float64 `json:"bias" yaml:"bias"`
	Competition  int     `json:"competition" yaml:"competition"`
	Routing      int     `json:"routing" yaml:"routing"`
	RangeA       int     `json:"rangeA" yaml:"rangeA"`
	RangeB       int     `json:"rangeB" yaml:"rangeB"`
	BipolarA     bool    `json:"bipolarA" yaml:"bipolarA"`
	BipolarB     bool    `json:"bipolarB" yaml:"bipolarB"`
}

// FromLane captures a lane's settings.
func FromLane(l *sequencer.Lane) LanePatch {
	return LanePatch{
		Steps:        l.Pattern(),
		StepLengthA:  l.A.StepLength,
		StepLengthB:  l.B.StepLength,
		ValueLengthA: l.A.ValueLength,
		ValueLengthB: l.B.ValueLength,
		ProbabilityA: l.A.Probability,
		ProbabilityB: l.B.Probability,
		Bias:         l.Bias,
		Competition:  int(l.Competition),
		Routing:      int(l.Routing),
		RangeA:       int(l.A.Range),
		RangeB:       int(l.B.Range),
		BipolarA:     l.A.Bipolar,
		BipolarB:     l.B.Bipolar,
	}
}

// Apply writes the settings into l through the lane setters, so
// out-of-range values are clamped the same way live edits are. Cursors and
// competition memory are left alone.
func (p LanePatch) Apply(l *sequencer.Lane) {
	l.SetPattern(p.Steps)
	l.SetStepLengthA(p.StepLengthA)
	l.SetStepLengthB(p.StepLengthB)
	l.SetValueLengthA(p.ValueLengthA)
	l.SetValueLengthB(p.ValueLengthB)
	l.SetProbability(sequencer.SideA, p.ProbabilityA)
	l.SetProbability(sequencer.SideB, p.ProbabilityB)
	l.SetBias(p.Bias)
	l.Competition = sequencer.CompetitionMode(clampMode(p.Competition, int(sequencer.NumCompetitionModes)))
	l.Routing = sequencer.RoutingMode(clampMode(p.Routing, int(sequencer.NumRoutingModes)))
	l.A.Range = sequencer.Range(clampMode(p.RangeA, int(sequencer.NumRanges)))
	l.B.Range = sequencer.Range(clampMode(p.RangeB, int(sequencer.NumRanges)))
	l.A.Bipolar = p.BipolarA
	l.B.Bipolar = p.BipolarB
}

func clampMode(v, n int) int {
	if v < 0 || v >= n {
		return 0
	}
	return v
}

func clampValue(v int) int {
	return max(0, min(127, v))
}

// FromState captures a session state.
func FromState(st session.State) Patch {
	p := Patch{
		Version:    Version,
		Layout:     st.Layout,
		OutputLane: st.OutputLane,
		Knobs:      st.Knobs,
		Faders:     st.Faders,
		Buttons:    st.Buttons,
	}
	for i := range st.Lanes {
		p.Lanes[i] = FromLane(&st.Lanes[i])
	}
	return p
}

// State rebuilds a session state from p.
func (p Patch) State() session.State {
	st := session.NewState()
	st.Layout = p.Layout
	st.OutputLane = p.OutputLane
	for layout := range p.Knobs {
		for k, v := range p.Knobs[layout] {
			st.Knobs[layout][k] = clampValue(v)
		}
	}
	for i, v := range p.Faders {
		st.Faders[i] = clampValue(v)
	}
	st.Buttons = p.Buttons
	for i := range p.Lanes {
		p.Lanes[i].Apply(&st.Lanes[i])
	}
	return st
}
