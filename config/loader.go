// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path on top of Default. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates the
// result. Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns every problem found in cfg joined into one error.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if err := cfg.Audio.Capture().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("audio: %w", err))
	}
	if cfg.Audio.Interval < 0 {
		errs = append(errs, fmt.Errorf("audio.interval must not be negative, got %s", cfg.Audio.Interval))
	}

	switch cfg.Store.Backend {
	case BackendJSON:
		if cfg.Store.ProfilesPath == "" {
			errs = append(errs, errors.New("store.profiles_path is required for the json backend"))
		}
	case BackendBadger:
		if cfg.Store.BadgerDir == "" {
			errs = append(errs, errors.New("store.badger_dir is required for the badger backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend %q is invalid; valid values: json, badger", cfg.Store.Backend))
	}
	if cfg.Store.MetadataPath == "" {
		errs = append(errs, errors.New("store.metadata_path is required"))
	}

	if cfg.Recorder.Dir == "" {
		errs = append(errs, errors.New("recorder.dir is required"))
	}
	if cfg.Recorder.Duration <= 0 {
		errs = append(errs, fmt.Errorf("recorder.duration must be positive, got %s", cfg.Recorder.Duration))
	}
	if cfg.Recorder.Interval < 0 {
		errs = append(errs, fmt.Errorf("recorder.interval must not be negative, got %s", cfg.Recorder.Interval))
	}

	for i, label := range cfg.Labels {
		if label == "" {
			errs = append(errs, fmt.Errorf("labels[%d] is empty", i))
		} else if slices.Index(cfg.Labels, label) != i {
			errs = append(errs, fmt.Errorf("labels[%d] %q is duplicated", i, label))
		}
	}

	return errors.Join(errs...)
}
