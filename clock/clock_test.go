package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lcxl-sequence/signal"
)

func TestResolveChainsClockABackwards(t *testing.T) {
	var in Inputs
	in.ConnectedA[1] = true
	in.A[1] = 10
	in.ConnectedA[5] = true
	in.A[5] = 3

	m := Resolve(4, in)
	assert.True(t, m.Valid())
	assert.False(t, m.HasA[0], "nothing patched at or below lane 0")
	assert.Equal(t, [8]bool{false, true, true, true, true, true, true, true}, m.HasA)
	assert.Equal(t, 10.0, m.A[4])
	assert.Equal(t, 3.0, m.A[7])
}

func TestResolveClockBFollowsOwnA(t *testing.T) {
	var in Inputs
	in.ConnectedA[2] = true
	in.A[2] = 10
	in.ConnectedB[3] = true
	in.B[3] = 5
	in.ConnectedB[0] = true
	in.B[0] = 7

	m := Resolve(1, in)
	assert.Equal(t, 10.0, m.B[2])
	assert.True(t, m.HasB[2])
	assert.Equal(t, 5.0, m.B[3])
	assert.True(t, m.HasB[0])
	assert.False(t, m.HasB[1])
}

func TestSources(t *testing.T) {
	shared := Shared{A: 10}
	a, b := Sources(0, shared, nil)
	assert.Equal(t, 10.0, a)
	assert.Equal(t, 10.0, b, "unpatched B follows A")

	shared.BConnected = true
	_, b = Sources(0, shared, nil)
	assert.Equal(t, 0.0, b)

	m := Empty()
	a, _ = Sources(0, shared, &m)
	assert.Equal(t, 10.0, a, "empty expander message is ignored")

	var in Inputs
	in.ConnectedA[0] = true
	in.ConnectedB[0] = true
	in.B[0] = 10
	m = Resolve(2, in)
	a, b = Sources(3, shared, &m)
	assert.Equal(t, 0.0, a)
	assert.Equal(t, 0.0, b)
	_, b = Sources(0, shared, &m)
	assert.Equal(t, 10.0, b)
}

func TestExpanderPublishesThroughPort(t *testing.T) {
	e := NewExpander(9)
	assert.False(t, e.Port().Consumer().Valid())

	var in Inputs
	in.ConnectedA[0] = true
	e.Publish(in)
	e.Port().Flip()
	assert.True(t, e.Port().Consumer().Valid())
	assert.True(t, e.Port().Consumer().HasA[7])
}

func TestInternalClockEdges(t *testing.T) {
	c := Internal{BPM: 120}
	var s signal.Schmitt
	edges := 0
	const dt = 1e-3
	for i := 0; i < 1000; i++ {
		if s.Process(c.Process(dt)) {
			edges++
		}
	}
	// 120 bpm 16ths: 8 per second
	assert.InDelta(t, 8, edges, 1)

	off := Internal{}
	assert.Equal(t, 0.0, off.Process(dt))
}
