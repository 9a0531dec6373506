package geo

import "math"

// Compass is an abbreviated 8-way compass direction.
type Compass string

const (
	North     Compass = "N"
	NorthEast Compass = "NE"
	East      Compass = "E"
	SouthEast Compass = "SE"
	South     Compass = "S"
	SouthWest Compass = "SW"
	West      Compass = "W"
	NorthWest Compass = "NW"
)

type sector struct {
	word     Compass
	from, to float64
}

// Sectors share their edges. The first sector in this order that contains a
// bearing wins, so a bearing on an edge maps to the earlier direction.
var sectors = []sector{
	{North, 337.5, 22.5}, // wraps through 0
	{NorthEast, 22.5, 67.5},
	{East, 67.5, 112.5},
	{SouthEast, 112.5, 157.5},
	{South, 157.5, 202.5},
	{SouthWest, 202.5, 247.5},
	{West, 247.5, 292.5},
	{NorthWest, 292.5, 337.5},
}

// CompassWord classifies a bearing in degrees into one of the eight compass words.
// Bearings outside [0, 360) are wrapped first. NaN yields an empty Compass.
func CompassWord(bearing float64) Compass {
	if math.IsNaN(bearing) || math.IsInf(bearing, 0) {
		return ""
	}
	bearing = math.Mod(bearing, 360)
	if bearing < 0 {
		bearing += 360
	}

	for _, s := range sectors {
		if s.from > s.to {
			if bearing >= s.from || bearing <= s.to {
				return s.word
			}
			continue
		}
		if bearing >= s.from && bearing <= s.to {
			return s.word
		}
	}
	return ""
}

// String implements fmt.Stringer.
func (c Compass) String() string {
	return string(c)
}
