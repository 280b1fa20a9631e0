package satellite

import (
	"lcxl-sequence/bus"
	"lcxl-sequence/sequencer"
	"lcxl-sequence/signal"
)

// Seq outputs triggers and CVs for all eight lanes at once.
type Seq struct {
	TrigA, TrigB [sequencer.NumLanes]float64
	CVA, CVB     [sequencer.NumLanes]float64
	Connected    bool

	pulseA, pulseB [sequencer.NumLanes]signal.Pulse
}

func (s *Seq) Kind() bus.Kind { return bus.KindSeq }

func (s *Seq) Accepts(upstream bus.Kind) bool {
	switch upstream {
	case bus.KindController, bus.KindGate, bus.KindKnob, bus.KindSeq:
		return true
	}
	return false
}

func (s *Seq) Process(in *bus.Snapshot, dt float64) {
	s.Connected = in != nil
	if in == nil {
		*s = Seq{}
		return
	}
	for i := range in.Lanes {
		lane := &in.Lanes[i]
		if lane.FiredA {
			s.pulseA[i].Trigger(signal.TriggerDuration)
		}
		if lane.FiredB {
			s.pulseB[i].Trigger(signal.TriggerDuration)
		}
		s.TrigA[i] = signal.Voltage(s.pulseA[i].Process(dt))
		s.TrigB[i] = signal.Voltage(s.pulseB[i].Process(dt))

		knobs := &in.Knobs[i+1]
		s.CVA[i] = sequencer.KnobToVoltage(knobs[valueKnob(lane, sequencer.SideA)], lane.RangeA, lane.BipolarA)
		s.CVB[i] = sequencer.KnobToVoltage(knobs[valueKnob(lane, sequencer.SideB)], lane.RangeB, lane.BipolarB)
	}
}

// valueKnob is the knob under a side's value cursor; B shares A's knob in
// value-single mode.
func valueKnob(l *bus.LaneData, side sequencer.Side) int {
	if side == sequencer.SideA || l.ValueSingle {
		return clampIndex(l.ValueA, sequencer.NumSteps)
	}
	return sequencer.HalfSteps + clampIndex(l.ValueB, sequencer.HalfSteps)
}

func clampIndex(i, n int) int {
	if i < 0 || i >= n {
		return 0
	}
	return i
}
