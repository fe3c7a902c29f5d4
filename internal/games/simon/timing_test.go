package simon

import (
	"testing"
	"time"
)

func TestBeepFor(t *testing.T) {
	ms := time.Millisecond
	tests := []struct {
		name   string
		timing Timing
		length int
		want   time.Duration
	}{
		{"first", DefaultTiming(), 1, 420 * ms},
		{"fifth", DefaultTiming(), 5, 420 * ms},
		{"sixth", DefaultTiming(), 6, 320 * ms},
		{"thirteenth", DefaultTiming(), 13, 320 * ms},
		{"fourteenth", DefaultTiming(), 14, 220 * ms},
		{"max", DefaultTiming(), MaxSequence, 220 * ms},
		{"coarse timer", Timing{Granularity: 100 * ms}.normalized(), 1, 370 * ms},
		{"fine timer", Timing{Granularity: 10 * ms}.normalized(), 1, 420 * ms},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.timing.BeepFor(tt.length); got != tt.want {
				t.Errorf("BeepFor(%d) = %v, expected %v", tt.length, got, tt.want)
			}
		})
	}
}

func TestRazzOn(t *testing.T) {
	if got := DefaultTiming().RazzOn(); got != 100*time.Millisecond {
		t.Errorf("RazzOn() = %v, expected 100ms", got)
	}
	coarse := Timing{Granularity: 100 * time.Millisecond}.normalized()
	if got := coarse.RazzOn(); got != 0 {
		t.Errorf("RazzOn() with coarse timer = %v, expected 0", got)
	}
}

func TestNormalizedFillsDefaults(t *testing.T) {
	got := Timing{Between: 30 * time.Millisecond, Timeout: -1}.normalized()
	if got.Between != 30*time.Millisecond {
		t.Errorf("Between = %v, expected 30ms", got.Between)
	}
	if got.Timeout != DefaultTiming().Timeout {
		t.Errorf("Timeout = %v, expected default", got.Timeout)
	}
	if got.BeepShort != 420*time.Millisecond {
		t.Errorf("BeepShort = %v, expected 420ms", got.BeepShort)
	}
}
