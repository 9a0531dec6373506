// Package trailio loads trails and recorded tracks from GeoJSON and shapefiles.
package trailio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"trailsense/pkg/geo"
)

var (
	// ErrNoPath is returned when a file holds no usable geometry.
	ErrNoPath = errors.New("no usable geometry")
	// ErrUnsupportedFormat is returned for file extensions we cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// LoadPath reads a trail. GeoJSON files yield their first LineString (or the first
// line of a MultiLineString); shapefiles yield the first PolyLine with all its parts
// joined in order.
func LoadPath(file string) (geo.Path, error) {
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".geojson", ".json":
		geoms, err := readGeoJSON(file)
		if err != nil {
			return nil, err
		}
		return PathFromGeometries(geoms)
	case ".shp":
		return loadShapefilePath(file)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadTrack reads recorded observer locations from GeoJSON, in file order.
func LoadTrack(file string) ([]geo.Point, error) {
	switch ext := strings.ToLower(filepath.Ext(file)); ext {
	case ".geojson", ".json":
		geoms, err := readGeoJSON(file)
		if err != nil {
			return nil, err
		}
		return TrackFromGeometries(geoms)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func readGeoJSON(file string) ([]orb.Geometry, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read geojson %s: %w", file, err)
	}
	geoms, err := ParseGeoJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geojson %s: %w", file, err)
	}
	return geoms, nil
}

// ParseGeoJSON returns the geometries of a FeatureCollection, a Feature or a bare
// geometry object, in document order.
func ParseGeoJSON(data []byte) ([]orb.Geometry, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		geoms := make([]orb.Geometry, 0, len(fc.Features))
		for _, f := range fc.Features {
			if f.Geometry != nil {
				geoms = append(geoms, f.Geometry)
			}
		}
		return geoms, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		if f.Geometry == nil {
			return nil, nil
		}
		return []orb.Geometry{f.Geometry}, nil
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, err
		}
		return []orb.Geometry{g.Geometry()}, nil
	}
}

// PathFromGeometries picks the first line geometry as the trail.
func PathFromGeometries(geoms []orb.Geometry) (geo.Path, error) {
	for _, g := range geoms {
		switch v := g.(type) {
		case orb.LineString:
			return geo.PathFromLineString(v), nil
		case orb.MultiLineString:
			if len(v) > 0 {
				return geo.PathFromLineString(v[0]), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no LineString", ErrNoPath)
}

// TrackFromGeometries flattens points, multipoints and lines into samples.
func TrackFromGeometries(geoms []orb.Geometry) ([]geo.Point, error) {
	var track []geo.Point
	add := func(pts ...orb.Point) {
		for _, p := range pts {
			track = append(track, geo.Point{Lat: p.Lat(), Lon: p.Lon()})
		}
	}

	for _, g := range geoms {
		switch v := g.(type) {
		case orb.Point:
			add(v)
		case orb.MultiPoint:
			add(v...)
		case orb.LineString:
			add(v...)
		}
	}
	if len(track) == 0 {
		return nil, fmt.Errorf("%w: no track points", ErrNoPath)
	}
	return track, nil
}

func loadShapefilePath(file string) (geo.Path, error) {
	shape, err := shp.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open shapefile: %w", err)
	}
	defer shape.Close()

	for shape.Next() {
		_, p := shape.Shape()
		line, ok := p.(*shp.PolyLine)
		if !ok {
			continue
		}
		path := make(geo.Path, 0, len(line.Points))
		for _, pt := range line.Points {
			path = append(path, geo.Point{Lat: pt.Y, Lon: pt.X})
		}
		if len(path) > 0 {
			return path, nil
		}
	}
	if err := shape.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shapes: %w", err)
	}
	return nil, fmt.Errorf("%w: no PolyLine in %s", ErrNoPath, file)
}
