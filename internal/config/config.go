package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/dawtools/portal-chooser/internal/utils"
)

// Config holds the file-configurable defaults. Command line flags override
// every field.
type Config struct {
	// Substring identifying the host application in process names,
	// executable paths and window classes.
	HostMarker string `yaml:"host_marker"`
	// Default dialog timeout in seconds; 0 waits indefinitely.
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// Default label for the dialog's accept button.
	AcceptLabel string `yaml:"accept_label"`
}

func Default() Config {
	return Config{HostMarker: "reaper"}
}

// DefaultPath is $XDG_CONFIG_HOME/portal-chooser/portal-chooser.yaml.
func DefaultPath() string {
	return filepath.Join(utils.ConfigDir(), "portal-chooser.yaml")
}

// Load reads the config file at path. A missing file is not an error, the
// defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	if cfg.HostMarker == "" {
		cfg.HostMarker = Default().HostMarker
	}
	return cfg, nil
}

// EnvDirectives are the ambient session directives. They are read exactly
// once, here, and threaded through as values so nothing downstream touches
// the environment.
type EnvDirectives struct {
	SessionType  string // XDG_SESSION_TYPE
	NoParent     bool   // PORTAL_NO_PARENT=1
	ForcedParent string // PORTAL_PARENT
}

func ReadEnv() EnvDirectives {
	return EnvDirectives{
		SessionType:  os.Getenv("XDG_SESSION_TYPE"),
		NoParent:     os.Getenv("PORTAL_NO_PARENT") == "1",
		ForcedParent: os.Getenv("PORTAL_PARENT"),
	}
}
