package watch

import "time"

// Interval bounds. The floor keeps a tiny interval from spinning the
// terminal; the ceiling is the largest whole-microsecond value that fits an
// unsigned 32-bit field.
const (
	MinInterval = 100 * time.Millisecond
	MaxInterval = 4294967295 * time.Microsecond
)

// ClampInterval forces an interval into [MinInterval, MaxInterval].
func ClampInterval(d time.Duration) time.Duration {
	if d < MinInterval {
		return MinInterval
	}
	if d > MaxInterval {
		return MaxInterval
	}
	return d
}

// clock abstracts wall time so scheduler tests can script it.
type clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
