package geom

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// KMLExt is the only file extension accepted for upload.
const KMLExt = ".kml"

var (
	ErrInvalidExtension = errors.New("kml: file does not have a .kml extension")
	ErrMalformedKML     = errors.New("kml: malformed document")
)

type kmlCoords string

type kmlPoint struct {
	Coordinates kmlCoords `xml:"coordinates"`
}

type kmlLineString struct {
	Coordinates kmlCoords `xml:"coordinates"`
}

type kmlRing struct {
	Coordinates kmlCoords `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer *kmlRing  `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlRing `xml:"innerBoundaryIs>LinearRing"`
}

// kmlTrack covers both Track and gx:Track; the gx prefix is a namespace
// and the decoder matches on local names.
type kmlTrack struct {
	When  []string `xml:"when"`
	Coord []string `xml:"coord"`
}

// kmlGeometry holds every geometry element found directly under a
// placemark or a multi-geometry container.
type kmlGeometry struct {
	Points      []kmlPoint      `xml:"Point"`
	LineStrings []kmlLineString `xml:"LineString"`
	Polygons    []kmlPolygon    `xml:"Polygon"`
	Tracks      []kmlTrack      `xml:"Track"`
	Multi       []kmlGeometry   `xml:"MultiGeometry"`
	MultiTracks []kmlGeometry   `xml:"MultiTrack"`
}

type kmlPlacemark struct {
	ID          string        `xml:"id,attr"`
	Name        string        `xml:"name"`
	Address     string        `xml:"address"`
	Description string        `xml:"description"`
	StyleURL    string        `xml:"styleUrl"`
	Visibility  *string       `xml:"visibility"`
	TimeStamp   *kmlTimeStamp `xml:"TimeStamp"`
	TimeSpan    *kmlTimeSpan  `xml:"TimeSpan"`
	Style       *kmlStyle     `xml:"Style"`
	Extended    *kmlExtended  `xml:"ExtendedData"`

	kmlGeometry
}

// IsKML reports whether name carries the .kml extension (case-insensitive).
func IsKML(name string) bool {
	return strings.EqualFold(filepath.Ext(name), KMLExt)
}

// LoadKML reads the file at path and converts it to a GeoJSON feature
// collection. Files without a .kml extension are rejected before they are
// opened.
func LoadKML(path string) (*geojson.FeatureCollection, error) {
	if !IsKML(path) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, filepath.Base(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ConvertKML(f)
}

// ConvertKML converts a KML document to a GeoJSON feature collection.
//
// Every Placemark is converted regardless of nesting depth. A placemark with
// one geometry keeps it; one with several becomes a GeometryCollection;
// one without any is dropped. Coordinates keep longitude and latitude only.
func ConvertKML(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	fc := geojson.NewFeatureCollection()
	seenElement := false
	skipped := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKML, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		seenElement = true
		if se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKML, err)
		}
		f := pm.feature()
		if f == nil {
			skipped++
			continue
		}
		fc.Append(f)
	}
	if !seenElement {
		return nil, fmt.Errorf("%w: no XML elements", ErrMalformedKML)
	}
	log.Debug().
		Int("features", len(fc.Features)).
		Int("skipped", skipped).
		Msg("KML converted")
	return fc, nil
}

func (pm kmlPlacemark) feature() *geojson.Feature {
	geoms, times := pm.geometries()
	if len(geoms) == 0 {
		return nil
	}
	var g orb.Geometry
	if len(geoms) == 1 {
		g = geoms[0]
	} else {
		g = orb.Collection(geoms)
	}
	f := geojson.NewFeature(g)
	if pm.ID != "" {
		f.ID = pm.ID
	}
	pm.fillProperties(f.Properties)
	switch len(times) {
	case 0:
	case 1:
		f.Properties["coordTimes"] = times[0]
	default:
		f.Properties["coordTimes"] = times
	}
	return f
}

// geometries returns the placemark's geometries ordered by kind: polygons,
// then line strings, then points, then tracks. Track timestamps come back
// alongside, one slice per track that has any.
func (pm kmlPlacemark) geometries() ([]orb.Geometry, [][]string) {
	var (
		polys  []kmlPolygon
		lines  []kmlLineString
		points []kmlPoint
		tracks []kmlTrack
	)
	var walk func(g kmlGeometry)
	walk = func(g kmlGeometry) {
		polys = append(polys, g.Polygons...)
		lines = append(lines, g.LineStrings...)
		points = append(points, g.Points...)
		tracks = append(tracks, g.Tracks...)
		for _, m := range g.Multi {
			walk(m)
		}
		for _, m := range g.MultiTracks {
			walk(m)
		}
	}
	walk(pm.kmlGeometry)

	var out []orb.Geometry
	for _, p := range polys {
		if poly := p.polygon(); poly != nil {
			out = append(out, poly)
		}
	}
	for _, l := range lines {
		if ls := l.Coordinates.lineString(); len(ls) > 0 {
			out = append(out, ls)
		}
	}
	for _, p := range points {
		if pt, ok := p.Coordinates.point(); ok {
			out = append(out, pt)
		}
	}
	var times [][]string
	for _, t := range tracks {
		ls := t.lineString()
		if len(ls) == 0 {
			continue
		}
		out = append(out, ls)
		if len(t.When) > 0 {
			times = append(times, trimAll(t.When))
		}
	}
	return out, times
}

func (p kmlPolygon) polygon() orb.Polygon {
	if p.Outer == nil {
		return nil
	}
	outer := p.Outer.Coordinates.lineString()
	if len(outer) == 0 {
		return nil
	}
	poly := orb.Polygon{orb.Ring(outer)}
	for _, in := range p.Inner {
		if ring := in.Coordinates.lineString(); len(ring) > 0 {
			poly = append(poly, orb.Ring(ring))
		}
	}
	return poly
}

func (t kmlTrack) lineString() orb.LineString {
	var ls orb.LineString
	for _, c := range t.Coord {
		// gx:coord separates lon, lat and alt with spaces
		vals := strings.Fields(c)
		if len(vals) < 2 {
			continue
		}
		if pt, ok := parseLonLat(vals[0], vals[1]); ok {
			ls = append(ls, pt)
		}
	}
	return ls
}

// lineString parses whitespace separated "lon,lat[,alt]" tuples.
// Tuples that do not parse are skipped.
func (c kmlCoords) lineString() orb.LineString {
	var ls orb.LineString
	for _, tuple := range strings.Fields(string(c)) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		if pt, ok := parseLonLat(vals[0], vals[1]); ok {
			ls = append(ls, pt)
		}
	}
	return ls
}

func (c kmlCoords) point() (orb.Point, bool) {
	ls := c.lineString()
	if len(ls) == 0 {
		return orb.Point{}, false
	}
	return ls[0], true
}

func parseLonLat(lonStr, latStr string) (orb.Point, bool) {
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err1 != nil || err2 != nil {
		return orb.Point{}, false
	}
	return orb.Point{lon, lat}, true
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
