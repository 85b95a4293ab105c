// Package config loads the optional per-project alan.toml file: a small
// TOML document that overrides the runtime library's search path and the
// diagnostic logger's default verbosity. Its absence is not an error —
// Load falls back to Defaults().
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// FileName is the project configuration file alanc looks for in the
// current working directory.
const FileName = "alan.toml"

// tomlFile mirrors alan.toml's on-disk shape.
type tomlFile struct {
	RuntimeLibPath string `toml:"runtime-lib-path,omitempty"`
	LogLevel       string `toml:"log-level,omitempty"`
}

// Project is the resolved configuration alanc runs with, after applying
// any alan.toml found on top of Defaults().
type Project struct {
	// RuntimeLibPath overrides where the linked runtime library's object
	// file is expected to live; empty means "use the default next to the
	// compiler binary."
	RuntimeLibPath string
	// LogLevel is the diagnostic logger's default verbosity: one of
	// "silent", "error", "warn", "verbose".
	LogLevel string
}

var validLogLevels = map[string]bool{
	"silent":  true,
	"error":   true,
	"warn":    true,
	"verbose": true,
}

// Defaults returns the configuration alanc uses when no alan.toml is
// present.
func Defaults() *Project {
	return &Project{LogLevel: "verbose"}
}

// Load reads alan.toml out of dir, if present, and overlays it onto
// Defaults(). A missing file is not an error.
func Load(dir string) (*Project, error) {
	proj := Defaults()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return proj, nil
		}
		return nil, err
	}

	tf := &tomlFile{}
	if err := toml.Unmarshal(data, tf); err != nil {
		return nil, fmt.Errorf("malformed %s: %w", FileName, err)
	}

	if tf.RuntimeLibPath != "" {
		proj.RuntimeLibPath = tf.RuntimeLibPath
	}
	if tf.LogLevel != "" {
		if !validLogLevels[tf.LogLevel] {
			return nil, fmt.Errorf("%s: log-level %q is not one of silent, error, warn, verbose", FileName, tf.LogLevel)
		}
		proj.LogLevel = tf.LogLevel
	}

	return proj, nil
}
