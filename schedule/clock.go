package schedule

import "time"

// Clock lets the reference instant be injected
type Clock interface {
	Now() time.Time
}

// RealClock reads the system time localized to Location
type RealClock struct {
	Location *time.Location
}

func (c RealClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Time
}
