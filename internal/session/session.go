// Package session holds the document currently loaded in the viewer and
// the summaries derived from it.
package session

import (
	"encoding/json"
	"errors"
	"io"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"kmlmap/internal/geom"
	"kmlmap/internal/summary"
)

// ErrNoDocument is returned when an operation needs a loaded collection.
var ErrNoDocument = errors.New("session: no document loaded")

// Session keeps one feature collection at a time. Loading a new document
// replaces the collection and clears both summaries; a failed load leaves
// everything as it was.
type Session struct {
	name string
	fc   *geojson.FeatureCollection

	counts  summary.CountSummary
	lengths summary.LengthSummary
	// lengths may legitimately be empty once computed
	lengthsReady bool
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Open loads the KML file at path. Paths without a .kml extension are
// rejected with geom.ErrInvalidExtension before the file is read.
func (s *Session) Open(path string) error {
	fc, err := geom.LoadKML(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Upload rejected")
		return err
	}
	s.Replace(filepath.Base(path), fc)
	return nil
}

// Load converts an in-memory KML document under the given display name.
func (s *Session) Load(name string, r io.Reader) error {
	fc, err := geom.ConvertKML(r)
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("Conversion failed")
		return err
	}
	s.Replace(name, fc)
	return nil
}

// Replace swaps in a converted collection and drops the stale summaries.
func (s *Session) Replace(name string, fc *geojson.FeatureCollection) {
	s.name = name
	s.fc = fc
	s.counts = nil
	s.lengths = nil
	s.lengthsReady = false
	n := 0
	if fc != nil {
		n = len(fc.Features)
	}
	log.Info().Str("name", name).Int("features", n).Msg("Document loaded")
}

// Loaded reports whether a collection is present.
func (s *Session) Loaded() bool { return s.fc != nil }

// Name returns the display name of the loaded document.
func (s *Session) Name() string { return s.name }

// Collection returns the loaded collection, nil before the first upload.
func (s *Session) Collection() *geojson.FeatureCollection { return s.fc }

// Summary computes the count view from the current collection and caches
// it. ok is false when nothing is loaded.
func (s *Session) Summary() (summary.CountSummary, bool) {
	if s.fc == nil {
		return nil, false
	}
	s.counts = summary.Count(s.fc)
	return s.counts, true
}

// Detail computes the length view from the current collection and caches
// it. ok is false when nothing is loaded.
func (s *Session) Detail() (summary.LengthSummary, bool) {
	if s.fc == nil {
		return nil, false
	}
	s.lengths = summary.Length(s.fc)
	s.lengthsReady = true
	return s.lengths, true
}

// Counts returns the last computed count view, nil if not requested since
// the last upload.
func (s *Session) Counts() summary.CountSummary { return s.counts }

// Lengths returns the last computed length view and whether it was
// requested since the last upload.
func (s *Session) Lengths() (summary.LengthSummary, bool) { return s.lengths, s.lengthsReady }

// GeoJSON encodes the loaded collection, indented when indent is set.
func (s *Session) GeoJSON(indent bool) ([]byte, error) {
	if s.fc == nil {
		return nil, ErrNoDocument
	}
	doc := collectionDoc{Type: "FeatureCollection", BBox: s.fc.BBox, Features: s.fc.Features}
	if doc.Features == nil {
		doc.Features = []*geojson.Feature{}
	}
	if indent {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}

// collectionDoc fixes the member order of an encoded collection to type,
// bbox, features. Features encode themselves with type first.
type collectionDoc struct {
	Type     string             `json:"type"`
	BBox     geojson.BBox       `json:"bbox,omitempty"`
	Features []*geojson.Feature `json:"features"`
}
