// Package config loads the optional rtcbuild.yml from the target directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/openrtc/rtcbuild/internal/matrix"
)

// FileName is looked up in the user-supplied target directory.
const FileName = "rtcbuild.yml"

// Config carries the optional per-checkout build overrides.
//
//	gn_args:
//	  ios:
//	    - rtc_include_opus=false
//	  android:
//	    - use_custom_libcxx=false
//	ninja_jobs: 8
type Config struct {
	// GNArgs are appended after the built-in tables, keyed by platform.
	// gn applies last-wins semantics, so entries here override built-ins.
	GNArgs map[string][]string `yaml:"gn_args"`

	// NinjaJobs limits ninja parallelism; 0 keeps ninja's default.
	NinjaJobs int `yaml:"ninja_jobs"`
}

// Load reads rtcbuild.yml from dir. A missing file yields an empty config.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	if cfg.NinjaJobs < 0 {
		return nil, fmt.Errorf("%s: ninja_jobs must not be negative", FileName)
	}
	return &cfg, nil
}

// Jobs returns the configured ninja job limit, 0 when unset.
func (c *Config) Jobs() int {
	if c == nil {
		return 0
	}
	return c.NinjaJobs
}

// ExtraArgs returns the user gn args for a platform, in file order.
func (c *Config) ExtraArgs(p matrix.Platform) []string {
	if c == nil {
		return nil
	}
	return c.GNArgs[string(p)]
}
