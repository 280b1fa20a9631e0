package clock

// Internal is a free-running square clock at 16th notes, used when no clock
// is patched.
type Internal struct {
	BPM   float64
	phase float64
}

// Process advances by dt seconds and returns the gate voltage.
func (c *Internal) Process(dt float64) float64 {
	if c.BPM <= 0 {
		return 0
	}
	period := 60 / c.BPM / 4
	c.phase += dt / period
	for c.phase >= 1 {
		c.phase--
	}
	if c.phase < 0.5 {
		return 10
	}
	return 0
}
