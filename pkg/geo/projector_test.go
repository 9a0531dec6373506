package geo

import (
	"math"
	"testing"
)

func TestNearest_EmptyPath(t *testing.T) {
	if _, ok := Nearest(nil, Point{Lat: 1, Lon: 1}); ok {
		t.Error("expected no result for empty path")
	}
	if _, ok := Nearest(Path{}, Point{Lat: 1, Lon: 1}); ok {
		t.Error("expected no result for zero-length path")
	}
}

func TestNearest_SinglePoint(t *testing.T) {
	only := Point{Lat: 45.37, Lon: -121.69}
	queries := []Point{
		only,
		{Lat: 45.38, Lon: -121.69},
		{Lat: -10, Lon: 100},
	}
	for _, q := range queries {
		got, ok := Nearest(Path{only}, q)
		if !ok {
			t.Fatalf("expected a result for %v", q)
		}
		if got.Point != only {
			t.Errorf("query %v: nearest = %v, want %v", q, got.Point, only)
		}
		if got.Distance != Distance(only, q) {
			t.Errorf("query %v: distance = %v, want %v", q, got.Distance, Distance(only, q))
		}
	}
}

func TestNearest_Clamping(t *testing.T) {
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 0, Lon: 0.01}
	path := Path{a, b}

	tests := []struct {
		name    string
		q       Point
		want    Point
		exact   bool
		fromSeg int
	}{
		{name: "Before A", q: Point{Lat: 0.001, Lon: -0.005}, want: a, exact: true},
		{name: "After B", q: Point{Lat: -0.001, Lon: 0.015}, want: b, exact: true},
		{name: "Between", q: Point{Lat: 0.001, Lon: 0.005}, want: Point{Lat: 0, Lon: 0.005}},
		{name: "On A", q: a, want: a, exact: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Nearest(path, tt.q)
			if !ok {
				t.Fatal("expected a result")
			}
			if tt.exact {
				if got.Point != tt.want {
					t.Errorf("nearest = %v, want %v", got.Point, tt.want)
				}
				return
			}
			// Interpolated points stay on the lat/lon line through A and B.
			if got.Point.Lat != 0 {
				t.Errorf("interpolated point left the segment: %v", got.Point)
			}
			if math.Abs(got.Point.Lon-tt.want.Lon) > 1e-5 {
				t.Errorf("nearest = %v, want approx %v", got.Point, tt.want)
			}
			if math.Abs(got.Distance-Distance(tt.q, tt.want)) > 0.5 {
				t.Errorf("distance = %v, want approx %v", got.Distance, Distance(tt.q, tt.want))
			}
		})
	}
}

func TestNearest_Interpolation(t *testing.T) {
	// Diagonal segment: the result must stay collinear in lat/lon terms.
	a := Point{Lat: 45.0, Lon: -121.0}
	b := Point{Lat: 45.002, Lon: -120.998}
	q := Point{Lat: 45.0015, Lon: -120.9995}

	got, ok := Nearest(Path{a, b}, q)
	if !ok {
		t.Fatal("expected a result")
	}
	fLat := (got.Point.Lat - a.Lat) / (b.Lat - a.Lat)
	fLon := (got.Point.Lon - a.Lon) / (b.Lon - a.Lon)
	if math.Abs(fLat-fLon) > 1e-9 {
		t.Errorf("point %v is not collinear with segment (fractions %v vs %v)", got.Point, fLat, fLon)
	}
	if fLat <= 0 || fLat >= 1 {
		t.Errorf("fraction %v should fall inside the segment", fLat)
	}
}

func TestNearest_PicksClosestSegment(t *testing.T) {
	path := Path{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.01},
		{Lat: 0.01, Lon: 0.01},
		{Lat: 0.01, Lon: 0.02},
	}
	q := Point{Lat: 0.005, Lon: 0.0105}

	got, ok := Nearest(path, q)
	if !ok {
		t.Fatal("expected a result")
	}
	if got.Segment != 1 {
		t.Errorf("segment = %d, want 1", got.Segment)
	}
	if math.Abs(got.Point.Lon-0.01) > 1e-9 {
		t.Errorf("nearest = %v, want a point on the northbound leg", got.Point)
	}
	if math.Abs(got.Distance-Distance(q, Point{Lat: 0.005, Lon: 0.01})) > 1.0 {
		t.Errorf("distance = %v", got.Distance)
	}
}

func TestNearest_TieKeepsFirstSegment(t *testing.T) {
	// Both legs of the V meet at the apex, which is the nearest point of each.
	apex := Point{Lat: 0.01, Lon: 0}
	path := Path{
		{Lat: 0, Lon: -0.01},
		apex,
		{Lat: 0, Lon: 0.01},
	}
	q := Point{Lat: 0.02, Lon: 0}

	got, ok := Nearest(path, q)
	if !ok {
		t.Fatal("expected a result")
	}
	if got.Point != apex {
		t.Errorf("nearest = %v, want apex %v", got.Point, apex)
	}
	if got.Segment != 0 {
		t.Errorf("segment = %d, want 0 (earlier segment wins ties)", got.Segment)
	}
}

func TestProjectSegment_ZeroLength(t *testing.T) {
	p := Point{Lat: 45, Lon: -121}
	q := Point{Lat: 45.001, Lon: -121}
	got := ProjectSegment(q, p, p)
	if got.Point != p {
		t.Errorf("nearest = %v, want %v", got.Point, p)
	}
	if math.IsNaN(got.Distance) {
		t.Error("distance is NaN")
	}
}

func TestNearest_DuplicateVertices(t *testing.T) {
	path := Path{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.01},
	}
	got, ok := Nearest(path, Point{Lat: 0.001, Lon: 0.005})
	if !ok {
		t.Fatal("expected a result")
	}
	if math.IsNaN(got.Point.Lat) || math.IsNaN(got.Point.Lon) {
		t.Fatalf("nearest contains NaN: %v", got.Point)
	}
	if got.Segment != 1 {
		t.Errorf("segment = %d, want 1", got.Segment)
	}
}
