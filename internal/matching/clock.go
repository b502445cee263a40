package matching

import "time"

// DayFormat is the calendar-day key used for batch idempotence
const DayFormat = "2006-01-02"

// Clock abstracts the day boundary so tests can advance time without
// waiting for midnight.
type Clock interface {
    Now() time.Time
    Today() string
}

type systemClock struct{}

// NewSystemClock returns a Clock backed by UTC wall time
func NewSystemClock() Clock {
    return systemClock{}
}

func (systemClock) Now() time.Time {
    return time.Now().UTC()
}

func (systemClock) Today() string {
    return time.Now().UTC().Format(DayFormat)
}
