package sequencer

const (
	NumLanes  = 8
	NumSteps  = 16
	HalfSteps = NumSteps / 2

	// Step length A at or above this folds the lane into single mode.
	SingleModeLength = HalfSteps + 1

	MaxLengthA = NumSteps
	MaxLengthB = HalfSteps
)

// Side names a sub-lane.
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) String() string {
	if s == SideB {
		return "B"
	}
	return "A"
}

// Fire reports which sub-lanes emitted a trigger.
type Fire struct {
	A, B bool
}

// Any reports whether either side fired.
func (f Fire) Any() bool {
	return f.A || f.B
}

// SubLane is one of the two cursors of a lane.
type SubLane struct {
	Step        int
	Value       int
	StepLength  int
	ValueLength int
	Probability float64
	Range       Range
	Bipolar     bool
}

// Lane is one sequencer track: a 16 step pattern shared by sub-lanes A and B.
// In dual mode steps 0-7 belong to A and 8-15 to B; in single mode all 16
// belong to A and B is frozen.
type Lane struct {
	Steps [NumSteps]bool
	A, B  SubLane

	Competition CompetitionMode
	Routing     RoutingMode
	Bias        float64

	// Competition and routing memory, kept across clock edges.
	MomentumA, MomentumB       float64
	LastWinnerA                bool
	PendingEchoA, PendingEchoB bool
	AlternateCounter           int
	BurstToA                   bool

	// Set when a side fired during the current tick.
	FiredA, FiredB bool
}

// NewLane returns a lane with the power-on defaults.
func NewLane() Lane {
	return Lane{
		A: SubLane{
			StepLength:  8,
			ValueLength: 8,
			Probability: 1,
		},
		B: SubLane{
			StepLength:  4,
			ValueLength: 4,
			Probability: 1,
		},
		Competition: Independent,
		Routing:     AllA,
		Bias:        0.5,
		MomentumA:   0.5,
		MomentumB:   0.5,
		LastWinnerA: true,
		BurstToA:    true,
	}
}

// StepSingleMode reports whether A owns all 16 steps.
func (l *Lane) StepSingleMode() bool {
	return l.A.StepLength >= SingleModeLength
}

// ValueSingleMode reports whether A's value length covers B's values too.
func (l *Lane) ValueSingleMode() bool {
	return l.A.ValueLength >= SingleModeLength
}

// SetStepLengthA sets A's step length (1-16), clamping the cursor.
func (l *Lane) SetStepLengthA(n int) {
	l.A.StepLength = clamp(n, 1, MaxLengthA)
	if l.A.Step >= l.A.StepLength {
		l.A.Step = 0
	}
}

// SetStepLengthB sets B's step length (0-8, 0 disables B).
func (l *Lane) SetStepLengthB(n int) {
	l.B.StepLength = clamp(n, 0, MaxLengthB)
	if l.B.Step >= l.B.StepLength {
		l.B.Step = 0
	}
}

// SetValueLengthA sets A's value length (1-16), clamping the cursor.
func (l *Lane) SetValueLengthA(n int) {
	l.A.ValueLength = clamp(n, 1, MaxLengthA)
	if l.A.Value >= l.A.ValueLength {
		l.A.Value = 0
	}
}

// SetValueLengthB sets B's value length (0-8, 0 disables B values).
func (l *Lane) SetValueLengthB(n int) {
	l.B.ValueLength = clamp(n, 0, MaxLengthB)
	if l.B.Value >= l.B.ValueLength {
		l.B.Value = 0
	}
}

// SetProbability sets a side's fire probability (0-1).
func (l *Lane) SetProbability(s Side, p float64) {
	p = clampf(p)
	if s == SideB {
		l.B.Probability = p
		return
	}
	l.A.Probability = p
}

// SetBias sets the bias shared by competition and routing (0-1).
func (l *Lane) SetBias(b float64) {
	l.Bias = clampf(b)
}

// StepIndex returns the pattern index a side is pointing at.
func (l *Lane) StepIndex(s Side) int {
	if s == SideB {
		if l.B.StepLength <= 0 {
			return -1
		}
		return HalfSteps + l.B.Step%l.B.StepLength
	}
	return l.A.Step
}

// ValueIndex returns the knob index (0-15) of a side's current value.
// B reads A's cursor when A's value length spans all 16 knobs.
func (l *Lane) ValueIndex(s Side) int {
	if s == SideB && !l.ValueSingleMode() {
		return HalfSteps + l.B.Value
	}
	return l.A.Value
}

// ToggleStep flips one pattern step.
func (l *Lane) ToggleStep(i int) bool {
	if i < 0 || i >= NumSteps {
		return false
	}
	l.Steps[i] = !l.Steps[i]
	return l.Steps[i]
}

// ClearSteps turns every step off.
func (l *Lane) ClearSteps() {
	l.Steps = [NumSteps]bool{}
}

// InvertSteps flips every step.
func (l *Lane) InvertSteps() {
	for i := range l.Steps {
		l.Steps[i] = !l.Steps[i]
	}
}

// RandomizeSteps sets each step on with probability 0.5.
func (l *Lane) RandomizeSteps(rng Rand) {
	for i := range l.Steps {
		l.Steps[i] = rng.Float64() > 0.5
	}
}

// Pattern packs the steps into a 16-bit mask, step 0 in bit 0.
func (l *Lane) Pattern() uint16 {
	var p uint16
	for i, on := range l.Steps {
		if on {
			p |= 1 << i
		}
	}
	return p
}

// SetPattern unpacks a 16-bit mask into the steps.
func (l *Lane) SetPattern(p uint16) {
	for i := range l.Steps {
		l.Steps[i] = p&(1<<i) != 0
	}
}

func clampf(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
