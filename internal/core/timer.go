package core

// FramesPerSecond is the nominal frame rate used to convert seconds into
// frame counts for the auto-generate countdown.
const FramesPerSecond = 60

// Countdown counts frames until an automatic action is due.
type Countdown struct {
	current int
	max     int
}

// NewCountdown constructs a countdown that fires after seconds worth of frames.
func NewCountdown(seconds int) *Countdown {
	c := &Countdown{}
	c.SetSeconds(seconds)
	return c
}

// SetSeconds changes the countdown length without resetting progress.
func (c *Countdown) SetSeconds(seconds int) {
	if seconds <= 0 {
		seconds = 1
	}
	c.max = seconds * FramesPerSecond
}

// Reset restarts the countdown.
func (c *Countdown) Reset() { c.current = 0 }

// Tick advances one frame and reports whether the countdown expired. An
// expired countdown restarts automatically.
func (c *Countdown) Tick() bool {
	c.current++
	if c.current > c.max {
		c.current = 0
		return true
	}
	return false
}

// Remaining returns the frames left before the countdown fires.
func (c *Countdown) Remaining() int { return c.max - c.current }
