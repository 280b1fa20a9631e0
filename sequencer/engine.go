package sequencer

// ResetCursors rewinds both sub-lanes and the routing counter. Lengths,
// probabilities and the pattern are untouched.
func (l *Lane) ResetCursors() {
	l.A.Step, l.A.Value = 0, 0
	l.B.Step, l.B.Value = 0, 0
	l.AlternateCounter = 0
}

// ClearFired drops the fired flags at the start of a tick.
func (l *Lane) ClearFired() {
	l.FiredA, l.FiredB = false, false
}

// ClockA handles a rising edge on the lane's A clock.
func (l *Lane) ClockA(rng Rand) Fire {
	if l.StepSingleMode() {
		return l.clockSingle(rng)
	}
	return l.clockDualA(rng)
}

// ClockB handles a rising edge on the lane's B clock. Single mode ignores it.
func (l *Lane) ClockB(rng Rand) Fire {
	if l.StepSingleMode() {
		return Fire{}
	}
	return l.clockDualB(rng)
}

func (l *Lane) clockSingle(rng Rand) Fire {
	l.A.Step = (l.A.Step + 1) % l.A.StepLength
	if !l.Steps[l.A.Step] {
		return Fire{}
	}
	if rng.Float64() >= l.A.Probability {
		return Fire{}
	}
	l.A.Value = (l.A.Value + 1) % l.A.ValueLength

	f := Route(l, rng)
	l.markFired(f)
	return f
}

func (l *Lane) clockDualA(rng Rand) Fire {
	l.A.Step = (l.A.Step + 1) % l.A.StepLength
	if !l.Steps[l.A.Step] {
		return Fire{}
	}
	if rng.Float64() >= l.A.Probability {
		return Fire{}
	}

	bWants := l.B.StepLength > 0 && l.Steps[HalfSteps+l.B.Step%l.B.StepLength]
	if Resolve(l, true, bWants, SideA, rng) != SideA {
		return Fire{}
	}

	l.A.Value = (l.A.Value + 1) % l.A.ValueLength
	f := Fire{A: true}
	l.markFired(f)
	return f
}

func (l *Lane) clockDualB(rng Rand) Fire {
	if l.B.StepLength <= 0 {
		return Fire{}
	}
	l.B.Step = (l.B.Step + 1) % l.B.StepLength
	if !l.Steps[HalfSteps+l.B.Step] {
		return Fire{}
	}
	if rng.Float64() >= l.B.Probability {
		return Fire{}
	}

	aWants := l.Steps[l.A.Step%l.A.StepLength]
	if Resolve(l, aWants, true, SideB, rng) != SideB {
		return Fire{}
	}

	if l.B.ValueLength > 0 {
		l.B.Value = (l.B.Value + 1) % l.B.ValueLength
	}
	f := Fire{B: true}
	l.markFired(f)
	return f
}

func (l *Lane) markFired(f Fire) {
	if f.A {
		l.FiredA = true
		l.PendingEchoA = false
	}
	if f.B {
		l.FiredB = true
		l.PendingEchoB = false
	}
}
