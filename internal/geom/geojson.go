package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Extract flattens a feature collection into Data (points, lines, polygons)
// for the map canvas. Multi geometries and collections are split into their
// parts. A nil collection yields empty Data.
func Extract(fc *geojson.FeatureCollection) Data {
	var d Data
	if fc == nil {
		return d
	}
	addPt := func(p orb.Point) {
		d.Points = append(d.Points, [2]float64(p))
		d.extend([2]float64(p))
	}
	toPath := func(ps []orb.Point) [][2]float64 {
		out := make([][2]float64, 0, len(ps))
		for _, p := range ps {
			out = append(out, [2]float64(p))
			d.extend([2]float64(p))
		}
		return out
	}
	addLine := func(ls orb.LineString) {
		if len(ls) == 0 {
			return
		}
		d.Lines = append(d.Lines, toPath(ls))
	}
	addPoly := func(poly orb.Polygon) {
		var rings [][][2]float64
		for _, r := range poly {
			if len(r) > 0 {
				rings = append(rings, toPath(r))
			}
		}
		if len(rings) > 0 {
			d.Polygons = append(d.Polygons, rings)
		}
	}
	var walkGeom func(g orb.Geometry)
	walkGeom = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Point:
			addPt(g)
		case orb.MultiPoint:
			for _, p := range g {
				addPt(p)
			}
		case orb.LineString:
			addLine(g)
		case orb.MultiLineString:
			for _, ls := range g {
				addLine(ls)
			}
		case orb.Ring:
			addPoly(orb.Polygon{g})
		case orb.Polygon:
			addPoly(g)
		case orb.MultiPolygon:
			for _, poly := range g {
				addPoly(poly)
			}
		case orb.Collection:
			for _, c := range g {
				walkGeom(c)
			}
		case orb.Bound:
			addPoly(g.ToPolygon())
		}
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		walkGeom(f.Geometry)
	}
	d.pad()
	return d
}

// Vertices returns every coordinate of g in order, descending into multi
// geometries and collections.
func Vertices(g orb.Geometry) []orb.Point {
	var out []orb.Point
	var walk func(g orb.Geometry)
	walk = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Point:
			out = append(out, g)
		case orb.MultiPoint:
			out = append(out, g...)
		case orb.LineString:
			out = append(out, g...)
		case orb.Ring:
			out = append(out, g...)
		case orb.MultiLineString:
			for _, ls := range g {
				out = append(out, ls...)
			}
		case orb.Polygon:
			for _, r := range g {
				out = append(out, r...)
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				for _, r := range poly {
					out = append(out, r...)
				}
			}
		case orb.Collection:
			for _, c := range g {
				walk(c)
			}
		case orb.Bound:
			out = append(out, g.Min, g.Max)
		}
	}
	walk(g)
	return out
}
