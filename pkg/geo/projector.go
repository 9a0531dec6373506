package geo

import "math"

// Projection is the closest point on a path to a query location.
type Projection struct {
	Point    Point
	Distance float64 // meters from the query location
	Segment  int     // index of the segment's first point
}

// Nearest finds the point on path closest to q. It returns false for an empty path.
//
// Each segment is treated as locally planar: the query is projected onto the
// segment using the bearing difference seen from its first point, and the
// on-segment point is found by linear interpolation of latitude and longitude.
// This is accurate at trail scale and is not a great-circle projection.
// Ties keep the earliest segment.
func Nearest(path Path, q Point) (Projection, bool) {
	switch len(path) {
	case 0:
		return Projection{}, false
	case 1:
		return Projection{Point: path[0], Distance: Distance(path[0], q)}, true
	}

	best := Projection{Distance: math.Inf(1)}
	for i := 0; i < len(path)-1; i++ {
		c := ProjectSegment(q, path[i], path[i+1])
		if c.Distance < best.Distance {
			best = c
			best.Segment = i
		}
	}
	return best, true
}

// ProjectSegment returns the point on the segment seg0 -> seg1 closest to q.
// Segment is left at zero.
func ProjectSegment(q, seg0, seg1 Point) Projection {
	hdLoc := Bearing(seg0, q)
	dLoc := Distance(seg0, q)
	hdSeg := Bearing(seg0, seg1)
	dSeg := Distance(seg0, seg1)

	phi := math.Abs(hdSeg-hdLoc) * degToRad
	along := dLoc * math.Cos(phi)

	var at Point
	switch {
	case along < 0 || dSeg == 0:
		at = seg0
	case along > dSeg:
		at = seg1
	default:
		f := along / dSeg
		at = Point{
			Lat: seg0.Lat + f*(seg1.Lat-seg0.Lat),
			Lon: seg0.Lon + f*(seg1.Lon-seg0.Lon),
		}
	}

	return Projection{Point: at, Distance: Distance(q, at)}
}
