package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SiteDomain != DefaultSiteDomain || cfg.TargetOffset != DefaultTargetOffset {
		t.Errorf("unexpected defaults: %+v", cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("relay_url: https://add2cal.example/api/proxy\nfetch_timeout: 10s\nsource_offset: 5h30m\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.RelayURL != "https://add2cal.example/api/proxy" {
		t.Errorf("RelayURL = %q", cfg.RelayURL)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
	}
	if cfg.SourceOffset != DefaultTargetOffset {
		t.Errorf("SourceOffset = %v", cfg.SourceOffset)
	}
	if cfg.BoundaryMarker != DefaultBoundaryMarker {
		t.Errorf("BoundaryMarker = %q", cfg.BoundaryMarker)
	}
	if cfg.DefaultDuration != DefaultDuration {
		t.Errorf("DefaultDuration = %v", cfg.DefaultDuration)
	}

	// page clocks already in the target zone: no shift
	if shift := cfg.Resolver().Shift; shift != 0 {
		t.Errorf("Resolver().Shift = %v, want 0", shift)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("expected an error for an empty path")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Listen = ":9090"
	cfg.DefaultDuration = 90 * time.Minute

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestNormalize(t *testing.T) {
	cfg := &Config{LogLevel: "loud", FetchTimeout: -time.Second}
	cfg.Normalize()

	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.FetchTimeout != DefaultFetchTimeout {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
	}
	if cfg.TargetOffset != 0 {
		t.Error("Normalize should not touch offsets")
	}
}

func TestZone(t *testing.T) {
	name, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).In(DefaultConfig().Zone()).Zone()
	if name != "IST" || offset != 19800 {
		t.Errorf("zone = %s %d, want IST 19800", name, offset)
	}
}
