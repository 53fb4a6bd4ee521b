package sandbox

// DefaultMaxTicks caps how many ticks one frame may run, so a long stall (window drag,
// breakpoint) is dropped instead of replayed.
const DefaultMaxTicks = 8

// Clock turns variable frame times into a whole number of fixed ticks, carrying the
// remainder to the next frame.
type Clock struct {
	step     float32
	acc      float32
	maxTicks int
}

// NewClock returns a clock for the given tick length in seconds.
func NewClock(step float32, maxTicks int) *Clock {
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	return &Clock{step: step, maxTicks: maxTicks}
}

// Advance adds frame seconds and returns how many ticks are due. Negative or NaN frame
// times count as zero.
func (c *Clock) Advance(frame float32) int {
	if !(frame > 0) || !(c.step > 0) {
		return 0
	}
	c.acc += frame
	n := 0
	for c.acc >= c.step {
		c.acc -= c.step
		n++
		if n == c.maxTicks {
			c.acc = 0
			break
		}
	}
	return n
}

// Alpha is how far into the next tick the clock is, in [0, 1).
func (c *Clock) Alpha() float32 {
	if !(c.step > 0) {
		return 0
	}
	return c.acc / c.step
}

// Advance runs every tick the clock says is due for a frame of the given length and
// returns how many ran.
func (s *Sandbox) Advance(clock *Clock, frame float32) (int, error) {
	ran := 0
	for i, n := 0, clock.Advance(frame); i < n; i++ {
		ok, err := s.FixedUpdate()
		if err != nil {
			return ran, err
		}
		if ok {
			ran++
		}
	}
	return ran, nil
}
