package sequencer

// Range selects the maximum output voltage of a sub-lane.
type Range int

const (
	Range5V Range = iota
	Range10V
	Range1V
	NumRanges
)

var rangeMax = [NumRanges]float64{5, 10, 1}
var rangeNames = [NumRanges]string{"5V", "10V", "1V"}

// Max returns the full-scale voltage.
func (r Range) Max() float64 {
	return rangeMax[r.valid()]
}

// Next cycles 5V -> 10V -> 1V -> 5V.
func (r Range) Next() Range {
	return (r.valid() + 1) % NumRanges
}

func (r Range) String() string {
	return rangeNames[r.valid()]
}

func (r Range) valid() Range {
	if r < 0 || r >= NumRanges {
		return Range5V
	}
	return r
}

// KnobToVoltage maps a 0-127 control value to volts. Bipolar output is
// centered on zero.
func KnobToVoltage(value int, r Range, bipolar bool) float64 {
	value = clamp(value, 0, 127)
	max := r.Max()
	v := float64(value) / 127 * max
	if bipolar {
		v -= max / 2
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
