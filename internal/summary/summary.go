// Package summary derives aggregate views from a GeoJSON feature collection:
// feature counts per geometry type and total line length per line type.
//
// Both views are pure functions of the collection and hold no state.
package summary

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
)

// Geometry type names as they appear in GeoJSON.
const (
	TypePoint           = "Point"
	TypeLineString      = "LineString"
	TypePolygon         = "Polygon"
	TypeMultiLineString = "MultiLineString"
)

// MeanEarthRadius is the mean Earth radius in meters used for lengths.
const MeanEarthRadius = 6371008.8

// TrackedTypes are the geometry types the count view reports, in display order.
var TrackedTypes = []string{TypePoint, TypeLineString, TypePolygon}

// TypeCount is one row of the count view.
type TypeCount struct {
	Type  string `json:"type" yaml:"type"`
	Count int    `json:"count" yaml:"count"`
}

// CountSummary lists every tracked type, in TrackedTypes order.
type CountSummary []TypeCount

// Get returns the count for a geometry type, zero when it is not tracked.
func (s CountSummary) Get(geomType string) int {
	for _, c := range s {
		if c.Type == geomType {
			return c.Count
		}
	}
	return 0
}

// Total returns the number of counted features.
func (s CountSummary) Total() int {
	n := 0
	for _, c := range s {
		n += c.Count
	}
	return n
}

// Count tallies features by geometry type. Only Point, LineString and
// Polygon are tracked; other types and features without geometry are
// ignored. A nil collection yields nil.
func Count(fc *geojson.FeatureCollection) CountSummary {
	if fc == nil {
		return nil
	}
	out := make(CountSummary, len(TrackedTypes))
	idx := make(map[string]int, len(TrackedTypes))
	for i, t := range TrackedTypes {
		out[i] = TypeCount{Type: t}
		idx[t] = i
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		if i, ok := idx[f.Geometry.GeoJSONType()]; ok {
			out[i].Count++
		}
	}
	return out
}

// TypeLength is one row of the length view.
type TypeLength struct {
	Type       string  `json:"type" yaml:"type"`
	Kilometers float64 `json:"kilometers" yaml:"kilometers"`
}

// Display formats the length with two decimals and a km suffix.
func (l TypeLength) Display() string {
	return fmt.Sprintf("%.2f km", l.Kilometers)
}

// LengthSummary lists line types in the order they first appear.
type LengthSummary []TypeLength

// Length sums the geodesic length in kilometers of every LineString and
// MultiLineString feature, per type. Other geometries are skipped. The result
// is empty when fc is nil or holds no line geometries.
func Length(fc *geojson.FeatureCollection) LengthSummary {
	var out LengthSummary
	if fc == nil {
		return out
	}
	idx := map[string]int{}
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		var km float64
		switch g := f.Geometry.(type) {
		case orb.LineString:
			km = Kilometers(g)
		case orb.MultiLineString:
			km = Kilometers(g)
		default:
			continue
		}
		t := f.Geometry.GeoJSONType()
		i, ok := idx[t]
		if !ok {
			i = len(out)
			idx[t] = i
			out = append(out, TypeLength{Type: t})
		}
		out[i].Kilometers += km
	}
	return out
}

// Kilometers returns the great-circle length of g along its vertices.
// orb measures on its equatorial radius; the result is rescaled to the mean
// radius, which is exact because haversine distance is linear in the radius.
func Kilometers(g orb.Geometry) float64 {
	meters := geo.LengthHaversine(g) * (MeanEarthRadius / orb.EarthRadius)
	return meters / 1000
}
