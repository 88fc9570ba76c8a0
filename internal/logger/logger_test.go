package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetup_JSONToFallback(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Level: "debug", Format: "json"}
	if err := l.Setup(&buf); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Debug().Str("name", "trip.kml").Msg("Document loaded")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", buf.String())
	}
	if entry["level"] != "debug" || entry["name"] != "trip.kml" || entry["message"] != "Document loaded" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestSetup_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{Level: "warn", Format: "json"}
	if err := l.Setup(&buf); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kmlmap.log")
	l := Logger{Level: "info", Format: "console", File: path}
	if err := l.Setup(nil); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	log.Info().Msg("to file")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "to file") {
		t.Errorf("log file content = %q", b)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestSetup_BadLevel(t *testing.T) {
	l := Logger{Level: "loud"}
	if err := l.Setup(nil); err == nil {
		t.Error("expected error for unknown level")
	}
}
