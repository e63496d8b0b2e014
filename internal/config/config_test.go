package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var _ = fmt.Print

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("missing file must yield the defaults:\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal-chooser.yaml")
	if err := os.WriteFile(path, []byte("host_marker: ardour\ntimeout_seconds: 30\naccept_label: _Open\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	expected := Config{HostMarker: "ardour", TimeoutSeconds: 30, AcceptLabel: "_Open"}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Fatalf("unexpected config:\n%s", diff)
	}
}

func TestLoadEmptyMarkerFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal-chooser.yaml")
	if err := os.WriteFile(path, []byte("timeout_seconds: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HostMarker != Default().HostMarker {
		t.Fatalf("empty marker must fall back to the default, got %#v", cfg.HostMarker)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Fatalf("unexpected timeout: %d", cfg.TimeoutSeconds)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal-chooser.yaml")
	if err := os.WriteFile(path, []byte("host_marker: [unterminated\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatal("invalid yaml must report an error")
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("invalid yaml must yield the defaults:\n%s", diff)
	}
}
