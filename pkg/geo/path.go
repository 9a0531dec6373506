package geo

import (
	"github.com/paulmach/orb"
)

// Path is an ordered sequence of points. Order defines the trail direction and
// which points form segments.
type Path []Point

// Bounds is the bounding box of a path.
type Bounds struct {
	SW Point
	NE Point
}

// LineString converts the path to an orb geometry (lon/lat order).
func (p Path) LineString() orb.LineString {
	ls := make(orb.LineString, len(p))
	for i, pt := range p {
		ls[i] = orb.Point{pt.Lon, pt.Lat}
	}
	return ls
}

// PathFromLineString converts an orb line string (lon/lat order) to a Path.
func PathFromLineString(ls orb.LineString) Path {
	p := make(Path, len(ls))
	for i, pt := range ls {
		p[i] = Point{Lat: pt.Lat(), Lon: pt.Lon()}
	}
	return p
}

// Bound returns the southwest and northeast corners of the path.
// It returns false for an empty path.
func (p Path) Bound() (Bounds, bool) {
	if len(p) == 0 {
		return Bounds{}, false
	}
	b := p.LineString().Bound()
	return Bounds{
		SW: Point{Lat: b.Min.Lat(), Lon: b.Min.Lon()},
		NE: Point{Lat: b.Max.Lat(), Lon: b.Max.Lon()},
	}, true
}

// Centroid returns the center of the path's bounding box, the point a view pans to
// when showing the whole trail.
func (p Path) Centroid() (Point, bool) {
	if len(p) == 0 {
		return Point{}, false
	}
	c := p.LineString().Bound().Center()
	return Point{Lat: c.Lat(), Lon: c.Lon()}, true
}

// Length returns the summed segment distances in meters.
func (p Path) Length() float64 {
	var total float64
	for i := 1; i < len(p); i++ {
		total += Distance(p[i-1], p[i])
	}
	return total
}
