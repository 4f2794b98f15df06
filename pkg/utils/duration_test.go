package utils

import (
	"testing"
	"time"
)

func TestToDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{0, 0},
		{1, time.Second},
		{30, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := ToDuration(tt.seconds); got != tt.want {
			t.Errorf("ToDuration(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestToDurationMs(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{0, 0},
		{1, time.Millisecond},
		{1500, 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := ToDurationMs(tt.ms); got != tt.want {
			t.Errorf("ToDurationMs(%d) = %v, want %v", tt.ms, got, tt.want)
		}
	}
}
