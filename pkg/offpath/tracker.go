// Package offpath decides whether an observer has drifted off a trail and
// produces the correction hints shown to the hiker.
package offpath

import (
	"log/slog"

	"trailsense/pkg/geo"
	"trailsense/pkg/logging"
)

// DefaultProximityThreshold is the displacement in meters required before the
// anchor moves to a new location.
const DefaultProximityThreshold = 10.0

// Config holds tracker settings.
type Config struct {
	// ProximityThreshold is the hysteresis distance for replacing the anchor.
	// The anchor moves only when a sample is strictly farther than this.
	ProximityThreshold float64
}

// DefaultConfig returns the default tracker configuration.
func DefaultConfig() Config {
	return Config{ProximityThreshold: DefaultProximityThreshold}
}

// Result is the outcome of one location update.
// Fields are only meaningful when their validity flag is set.
type Result struct {
	// ToPath is true iff a correction vector back to the path is reported,
	// i.e. the observer is farther from the path than the off-path threshold.
	ToPath         bool
	DistanceToPath float64   // meters, valid if ToPath
	BearingToPath  float64   // degrees from the location to Nearest, valid if ToPath
	Nearest        geo.Point // closest on-path point, valid if ToPath

	// RefLine is true iff RefBearing is reported.
	RefLine    bool
	RefBearing float64   // degrees from Anchor to the location, valid if RefLine
	Anchor     geo.Point // anchor the reference bearing was taken from

	// AnchorMoved is set when this update replaced the anchor.
	AnchorMoved bool
}

// Correction returns the signed turn in degrees from the direction of travel to
// the heading back to the path, in [-180, 180]. Positive is clockwise.
func (r Result) Correction() (float64, bool) {
	if !r.ToPath || !r.RefLine {
		return 0, false
	}
	return geo.NormalizeAngle(r.BearingToPath - r.RefBearing), true
}

// Direction returns the compass word for the heading back to the path.
func (r Result) Direction() geo.Compass {
	if !r.ToPath {
		return ""
	}
	return geo.CompassWord(r.BearingToPath)
}

// Tracker holds the state of one tracking session.
// It is not safe for concurrent use.
type Tracker struct {
	cfg Config

	anchor   geo.Point
	anchored bool

	// showing mirrors whether off-path figures are currently displayed.
	showing bool
}

// New creates a tracker with no anchor.
func New(cfg Config) *Tracker {
	return &Tracker{cfg: cfg}
}

// Config returns the tracker configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// Anchor returns the retained previous location, if any.
func (t *Tracker) Anchor() (geo.Point, bool) {
	return t.anchor, t.anchored
}

// Showing reports whether the last update produced off-path figures that have
// not been cleared since.
func (t *Tracker) Showing() bool {
	return t.showing
}

// Clear drops the displayed off-path figures. The anchor is kept.
func (t *Tracker) Clear() {
	t.showing = false
}

// Update processes a location sample against path.
//
// The first call only bootstraps the anchor and never reports a reference line.
// The anchor is replaced, after all computations for this call, when the sample
// lies strictly more than ProximityThreshold from it. A correction is reported
// when the nearest path point is strictly more than offPathThreshold away.
func (t *Tracker) Update(path geo.Path, loc geo.Point, offPathThreshold float64) Result {
	wasUnanchored := !t.anchored
	if wasUnanchored {
		t.anchor = loc
		t.anchored = true
	}

	movedEnough := geo.Distance(loc, t.anchor) > t.cfg.ProximityThreshold

	var res Result
	nearest, ok := geo.Nearest(path, loc)
	if ok && nearest.Distance > offPathThreshold {
		res.ToPath = true
		res.DistanceToPath = nearest.Distance
		res.BearingToPath = geo.Bearing(loc, nearest.Point)
		res.Nearest = nearest.Point

		res.Anchor = t.anchor
		res.RefBearing = geo.Bearing(t.anchor, loc)
		res.RefLine = !wasUnanchored
		t.showing = true
	} else {
		t.showing = false
	}

	if movedEnough {
		t.anchor = loc
		res.AnchorMoved = true
	}

	logging.TraceDefault("offpath: update",
		"lat", loc.Lat,
		"lon", loc.Lon,
		"to_path", res.ToPath,
		"dist", res.DistanceToPath,
		"ref_line", res.RefLine,
		"anchor_moved", res.AnchorMoved,
	)
	if !ok {
		slog.Debug("offpath: no path to track against", "points", len(path))
	}

	return res
}
