// Package geo holds the geographic primitives used by the off-path engine:
// points, paths, bearing and distance on a spherical Earth, and projection of
// a location onto a path.
package geo

import (
	"math"
)

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// Point represents a geographic coordinate in degrees (WGS-84).
type Point struct {
	Lat float64
	Lon float64
}

// less orders points by latitude, then longitude.
func less(a, b Point) bool {
	if a.Lat != b.Lat {
		return a.Lat < b.Lat
	}
	return a.Lon < b.Lon
}

// Distance calculates the Haversine distance between two points in meters.
// The result does not depend on argument order.
func Distance(p1, p2 Point) float64 {
	if p1 == p2 {
		return 0
	}
	if less(p2, p1) {
		p1, p2 = p2, p1
	}

	dLat := (p2.Lat - p1.Lat) * degToRad
	dLon := (p2.Lon - p1.Lon) * degToRad
	lat1 := p1.Lat * degToRad
	lat2 := p2.Lat * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadius * c
}

// Bearing calculates the initial bearing (forward azimuth) from p1 to p2 in degrees,
// in the range [0, 360). Coincident points have no azimuth and yield 0.
func Bearing(p1, p2 Point) float64 {
	if p1 == p2 {
		return 0
	}
	lat1 := p1.Lat * degToRad
	lat2 := p2.Lat * degToRad
	dLon := (p2.Lon - p1.Lon) * degToRad

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) -
		math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := math.Atan2(y, x)

	return math.Mod(brng*radToDeg+360.0, 360.0)
}

// DestinationPoint calculates the destination point from a start point, given distance (in meters) and bearing (in degrees).
func DestinationPoint(start Point, distMeters, bearing float64) Point {
	lat1 := start.Lat * degToRad
	lon1 := start.Lon * degToRad
	brng := bearing * degToRad
	delta := distMeters / EarthRadius

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) +
		math.Cos(lat1)*math.Sin(delta)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(math.Sin(brng)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2))

	return Point{
		Lat: lat2 * radToDeg,
		Lon: lon2 * radToDeg,
	}
}

// ExtendLine returns the point delta meters beyond to, continuing the heading
// from -> to, together with that heading. The heading does not depend on delta.
func ExtendLine(from, to Point, delta float64) (Point, float64) {
	brng := Bearing(from, to)
	if delta == 0 {
		return to, brng
	}
	return DestinationPoint(to, delta, brng), brng
}

// NormalizeAngle normalizes an angle difference to the range [-180, 180].
func NormalizeAngle(angleDeg float64) float64 {
	for angleDeg > 180 {
		angleDeg -= 360
	}
	for angleDeg < -180 {
		angleDeg += 360
	}
	return angleDeg
}
