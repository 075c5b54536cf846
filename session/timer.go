package session

import "time"

// Timer flips the flicker phase every half period of the current frequency.
// Timing error is not corrected; a toggle can land up to one frame late.
type Timer struct {
	On   bool
	last time.Time
}

func NewTimer(now time.Time) *Timer {
	return &Timer{On: true, last: now}
}

// HalfPeriod is 1/(2f).
func HalfPeriod(freq float64) time.Duration {
	return time.Duration(float64(time.Second) / (2 * freq))
}

// Update toggles the phase if more than a half period of freq has passed
// since the last toggle, and reports whether it did. A frequency change
// applies from the last toggle, not from the moment of the change.
func (t *Timer) Update(now time.Time, freq float64) bool {
	if now.Sub(t.last) <= HalfPeriod(freq) {
		return false
	}
	t.On = !t.On
	t.last = now
	return true
}

func (t *Timer) LastToggle() time.Time {
	return t.last
}
