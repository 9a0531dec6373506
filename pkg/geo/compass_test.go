package geo

import (
	"math"
	"testing"
)

func TestCompassWord(t *testing.T) {
	tests := []struct {
		bearing float64
		want    Compass
	}{
		{0, North},
		{10, North},
		{22.5, North}, // shared edge, N is checked first
		{22.6, NorthEast},
		{45, NorthEast},
		{67.5, NorthEast},
		{90, East},
		{112.5, East},
		{135, SouthEast},
		{157.5, SouthEast},
		{180, South},
		{202.5, South},
		{225, SouthWest},
		{247.5, SouthWest},
		{270, West},
		{292.5, West},
		{315, NorthWest},
		{337.5, North}, // shared with NW, N wins
		{337.4, NorthWest},
		{359.9, North},
		{360, North},
		{-90, West},
		{450, East},
	}

	for _, tt := range tests {
		if got := CompassWord(tt.bearing); got != tt.want {
			t.Errorf("CompassWord(%v) = %q, want %q", tt.bearing, got, tt.want)
		}
	}
}

func TestCompassWord_NaN(t *testing.T) {
	if got := CompassWord(math.NaN()); got != "" {
		t.Errorf("CompassWord(NaN) = %q, want empty", got)
	}
}
