package satellite

import (
	"lcxl-sequence/bus"
	"lcxl-sequence/lcxl"
	"lcxl-sequence/signal"
)

// Gate outputs 10 V for every lit default-layout button.
type Gate struct {
	Out       [lcxl.NumButtons]float64
	Connected bool
}

func (g *Gate) Kind() bus.Kind { return bus.KindGate }

// Accepts only a controller directly upstream.
func (g *Gate) Accepts(upstream bus.Kind) bool {
	return upstream == bus.KindController
}

func (g *Gate) Process(in *bus.Snapshot, dt float64) {
	g.Connected = in != nil
	for i := range g.Out {
		g.Out[i] = 0
		if in != nil {
			g.Out[i] = signal.Voltage(in.Buttons[i])
		}
	}
}

// Knob outputs the 24 knobs of the viewed layout at 0-10 V.
type Knob struct {
	Out       [lcxl.NumKnobs]float64
	Connected bool
}

func (k *Knob) Kind() bus.Kind { return bus.KindKnob }

// Accepts only a controller directly upstream.
func (k *Knob) Accepts(upstream bus.Kind) bool {
	return upstream == bus.KindController
}

func (k *Knob) Process(in *bus.Snapshot, dt float64) {
	k.Connected = in != nil
	for i := range k.Out {
		k.Out[i] = 0
		if in != nil && in.Layout >= 0 && in.Layout < bus.NumLayouts {
			k.Out[i] = float64(in.Knobs[in.Layout][i]) / 127 * 10
		}
	}
}
