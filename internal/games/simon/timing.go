package simon

import "time"

const (
	razzBase  = 100 * time.Millisecond
	razzFloor = 20 * time.Millisecond
)

// Timing holds every duration the engine paces itself with.
type Timing struct {
	BeepShort  time.Duration // on-time for sequences of 1-5 colors
	BeepMedium time.Duration // on-time for 6-13 colors
	BeepLong   time.Duration // on-time for 14 and more
	Between    time.Duration // gap between two flashes
	// Granularity is the resolution of a coarse platform timer. Durations
	// are shortened by its excess over Between. Zero disables compensation.
	Granularity time.Duration
	Timeout     time.Duration // player response deadline
	RoundPause  time.Duration // silence before a new round or the victory tune
	VictoryLead time.Duration // on-time of the first victory flash
	VictoryOn   time.Duration // on-time of the later victory flashes
	VictoryGap  time.Duration // gap between victory flashes
}

// DefaultTiming returns the timings of the original hardware.
func DefaultTiming() Timing {
	return Timing{
		BeepShort:   420 * time.Millisecond,
		BeepMedium:  320 * time.Millisecond,
		BeepLong:    220 * time.Millisecond,
		Between:     50 * time.Millisecond,
		Timeout:     3 * time.Second,
		RoundPause:  800 * time.Millisecond,
		VictoryLead: 20 * time.Millisecond,
		VictoryOn:   70 * time.Millisecond,
		VictoryGap:  20 * time.Millisecond,
	}
}

// normalized fills unset or negative durations from DefaultTiming.
// Granularity may legitimately be zero.
func (t Timing) normalized() Timing {
	d := DefaultTiming()
	fill := func(v *time.Duration, def time.Duration) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&t.BeepShort, d.BeepShort)
	fill(&t.BeepMedium, d.BeepMedium)
	fill(&t.BeepLong, d.BeepLong)
	fill(&t.Between, d.Between)
	fill(&t.Timeout, d.Timeout)
	fill(&t.RoundPause, d.RoundPause)
	fill(&t.VictoryLead, d.VictoryLead)
	fill(&t.VictoryOn, d.VictoryOn)
	fill(&t.VictoryGap, d.VictoryGap)
	if t.Granularity < 0 {
		t.Granularity = 0
	}
	return t
}

// compensation is how much a coarse timer stretches every gap.
func (t Timing) compensation() time.Duration {
	if t.Between < t.Granularity {
		return t.Granularity - t.Between
	}
	return 0
}

// BeepFor returns the on-time of a flash while the sequence holds n colors.
func (t Timing) BeepFor(n int) time.Duration {
	var d time.Duration
	switch {
	case n < 6:
		d = t.BeepShort
	case n < 14:
		d = t.BeepMedium
	default:
		d = t.BeepLong
	}
	return max(d-t.compensation(), 0)
}

// RazzOn returns the on-time of each razz flash.
func (t Timing) RazzOn() time.Duration {
	d := razzFloor
	if c := t.compensation(); c < razzBase {
		d = razzBase - c
	}
	if d < t.Granularity {
		d -= t.Granularity - t.Between
	}
	return max(d, 0)
}
