package domain

import "github.com/jonboulle/clockwork"

// clock stamps Reading.ProcessedAt.
var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock replaces the clock used by EnrichReading. nil restores wall time.
func SetClock(c clockwork.Clock) {
	if c != nil {
		clock = c
		return
	}
	clock = clockwork.NewRealClock()
}
