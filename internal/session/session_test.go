package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kmlmap/internal/geom"
	"kmlmap/internal/summary"
)

const firstDoc = `<kml><Document>
	<Placemark><Point><coordinates>-122.0,37.0</coordinates></Point></Placemark>
	<Placemark><Point><coordinates>-122.05,37.05</coordinates></Point></Placemark>
	<Placemark><Point><coordinates>-122.1,37.1</coordinates></Point></Placemark>
	<Placemark><LineString><coordinates>-122.0,37.0 -122.05,37.05 -122.1,37.1</coordinates></LineString></Placemark>
</Document></kml>`

const secondDoc = `<kml><Placemark><Polygon><outerBoundaryIs><LinearRing>
	<coordinates>0,0 1,0 1,1 0,0</coordinates>
</LinearRing></outerBoundaryIs></Polygon></Placemark></kml>`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSession_Empty(t *testing.T) {
	s := New()
	if s.Loaded() {
		t.Fatal("new session should not be loaded")
	}
	if got, ok := s.Summary(); ok || got != nil {
		t.Errorf("Summary() = %v, %v; want nil, false", got, ok)
	}
	if got, ok := s.Detail(); ok || got != nil {
		t.Errorf("Detail() = %v, %v; want nil, false", got, ok)
	}
	if _, err := s.GeoJSON(false); !errors.Is(err, ErrNoDocument) {
		t.Errorf("GeoJSON() error = %v, want ErrNoDocument", err)
	}
}

func TestSession_Open(t *testing.T) {
	s := New()
	path := writeFile(t, "trip.kml", firstDoc)
	if err := s.Open(path); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !s.Loaded() || s.Name() != "trip.kml" {
		t.Fatalf("loaded = %v, name = %q", s.Loaded(), s.Name())
	}
	if s.Counts() != nil {
		t.Error("counts must not be computed before they are requested")
	}

	counts, ok := s.Summary()
	if !ok {
		t.Fatal("Summary() not ok after load")
	}
	if counts.Get("Point") != 3 || counts.Get("LineString") != 1 || counts.Get("Polygon") != 0 {
		t.Errorf("Summary() = %v", counts)
	}
	lengths, ok := s.Detail()
	if !ok || len(lengths) != 1 || lengths[0].Type != "LineString" {
		t.Errorf("Detail() = %v, %v", lengths, ok)
	}
}

func TestSession_RejectsWrongExtension(t *testing.T) {
	s := New()
	path := writeFile(t, "route.gpx", firstDoc)
	err := s.Open(path)
	if !errors.Is(err, geom.ErrInvalidExtension) {
		t.Fatalf("Open() error = %v, want ErrInvalidExtension", err)
	}
	if s.Loaded() || s.Collection() != nil {
		t.Error("rejected upload must leave the collection unset")
	}
}

func TestSession_ReplaceClearsSummaries(t *testing.T) {
	s := New()
	if err := s.Open(writeFile(t, "first.kml", firstDoc)); err != nil {
		t.Fatal(err)
	}
	s.Summary()
	s.Detail()
	if s.Counts() == nil {
		t.Fatal("counts should be cached")
	}

	if err := s.Open(writeFile(t, "second.kml", secondDoc)); err != nil {
		t.Fatal(err)
	}
	if s.Name() != "second.kml" {
		t.Errorf("name = %q", s.Name())
	}
	if s.Counts() != nil {
		t.Errorf("stale counts survived the upload: %v", s.Counts())
	}
	if got, ready := s.Lengths(); ready || got != nil {
		t.Errorf("stale lengths survived the upload: %v", got)
	}
	if n := len(s.Collection().Features); n != 1 {
		t.Errorf("collection has %d features, want 1", n)
	}

	counts, _ := s.Summary()
	want := summary.CountSummary{{Type: "Point"}, {Type: "LineString"}, {Type: "Polygon", Count: 1}}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("regenerated counts = %v, want %v", counts, want)
			break
		}
	}
	lengths, ready := s.Detail()
	if !ready || len(lengths) != 0 {
		t.Errorf("Detail() = %v, %v; want empty, true", lengths, ready)
	}
}

func TestSession_FailedLoadKeepsState(t *testing.T) {
	s := New()
	if err := s.Load("first", strings.NewReader(firstDoc)); err != nil {
		t.Fatal(err)
	}
	s.Summary()

	err := s.Load("broken", strings.NewReader("<kml><Placemark>"))
	if !errors.Is(err, geom.ErrMalformedKML) {
		t.Fatalf("Load() error = %v, want ErrMalformedKML", err)
	}
	if s.Name() != "first" || len(s.Collection().Features) != 4 {
		t.Errorf("failed load changed state: name=%q", s.Name())
	}
	if s.Counts() == nil {
		t.Error("failed load cleared the summaries")
	}
}

func TestSession_GeoJSONEmptyCollection(t *testing.T) {
	s := New()
	if err := s.Load("empty", strings.NewReader("<kml><Document/></kml>")); err != nil {
		t.Fatal(err)
	}
	b, err := s.GeoJSON(false)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"type":"FeatureCollection","features":[]}`; got != want {
		t.Errorf("GeoJSON() = %s, want %s", got, want)
	}
}

func TestSession_GeoJSON(t *testing.T) {
	s := New()
	if err := s.Load("doc", strings.NewReader(firstDoc)); err != nil {
		t.Fatal(err)
	}
	for _, indent := range []bool{false, true} {
		b, err := s.GeoJSON(indent)
		if err != nil {
			t.Fatalf("GeoJSON(%v) error = %v", indent, err)
		}
		var raw struct {
			Type     string `json:"type"`
			Features []struct {
				Type     string `json:"type"`
				Geometry struct {
					Type string `json:"type"`
				} `json:"geometry"`
			} `json:"features"`
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			t.Fatalf("GeoJSON(%v) produced invalid JSON: %v", indent, err)
		}
		if raw.Type != "FeatureCollection" || len(raw.Features) != 4 {
			t.Errorf("GeoJSON(%v) = type %q with %d features", indent, raw.Type, len(raw.Features))
		}
		if raw.Features[3].Type != "Feature" || raw.Features[3].Geometry.Type != "LineString" {
			t.Errorf("GeoJSON(%v) last feature = %+v", indent, raw.Features[3])
		}
		if got := strings.Contains(string(b), "\n"); got != indent {
			t.Errorf("GeoJSON(%v) indentation mismatch", indent)
		}
		compact := strings.Join(strings.Fields(string(b)), "")
		if !strings.HasPrefix(compact, `{"type":"FeatureCollection","features":[{"type":"Feature",`) {
			t.Errorf("GeoJSON(%v) member order: %.60s", indent, compact)
		}
	}
}
