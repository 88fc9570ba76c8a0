package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !*cfg.Help || !*cfg.Layers.Points || !*cfg.Layers.Lines || !*cfg.Layers.Polygons {
		t.Errorf("defaults should enable help and all layers: %+v", cfg)
	}
	if cfg.Map.ZoomStep != DefaultZoomStep || cfg.Map.MaxZoom != DefaultMaxZoom || cfg.Map.MinZoom != DefaultMinZoom {
		t.Errorf("map defaults = %+v", cfg.Map)
	}
}

func TestLoad_File(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "Overrides",
			yaml: "start_dir: /data\nhelp: false\nlayers:\n  points: false\nmap:\n  zoom_step: 2\n  max_zoom: 10\n  min_zoom: 0.5\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.StartDir != "/data" || *cfg.Help {
					t.Errorf("start_dir/help = %q/%v", cfg.StartDir, *cfg.Help)
				}
				if *cfg.Layers.Points || !*cfg.Layers.Lines {
					t.Errorf("layers = points:%v lines:%v", *cfg.Layers.Points, *cfg.Layers.Lines)
				}
				if cfg.Map.ZoomStep != 2 || cfg.Map.MaxZoom != 10 || cfg.Map.MinZoom != 0.5 {
					t.Errorf("map = %+v", cfg.Map)
				}
			},
		},
		{
			name: "Invalid Zoom Falls Back",
			yaml: "map:\n  zoom_step: 0.5\n  max_zoom: 4\n  min_zoom: 8\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Map.ZoomStep != DefaultZoomStep || cfg.Map.MinZoom != DefaultMinZoom || cfg.Map.MaxZoom != 4 {
					t.Errorf("map = %+v", cfg.Map)
				}
			},
		},
		{
			name: "Empty File",
			yaml: "",
			check: func(t *testing.T, cfg *Config) {
				if !*cfg.Help {
					t.Error("empty file should keep defaults")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "kmlmap.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("map: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
