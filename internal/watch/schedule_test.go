package watch

import (
	"testing"
	"time"
)

func TestClampInterval(t *testing.T) {
	cases := []struct {
		in, want time.Duration
	}{
		{0, MinInterval},
		{-time.Second, MinInterval},
		{50 * time.Millisecond, MinInterval},
		{100 * time.Millisecond, 100 * time.Millisecond},
		{2 * time.Second, 2 * time.Second},
		{MaxInterval, MaxInterval},
		{5000 * time.Second, MaxInterval},
	}
	for _, tc := range cases {
		if got := ClampInterval(tc.in); got != tc.want {
			t.Errorf("ClampInterval(%v): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestIntervalBoundsMatchMicrosecondRange(t *testing.T) {
	if MaxInterval != 4294967295*time.Microsecond {
		t.Errorf("unexpected ceiling %v", MaxInterval)
	}
	if MinInterval != 100*time.Millisecond {
		t.Errorf("unexpected floor %v", MinInterval)
	}
}
