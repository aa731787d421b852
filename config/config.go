// SPDX-License-Identifier: EPL-2.0

// Package config holds the YAML configuration of the audclass binary.
package config

import (
	"log/slog"
	"time"

	"github.com/ik5/audclass/capture"
	"github.com/ik5/audclass/detector"
	"github.com/ik5/audclass/recorder"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level converts l to a slog level. Unknown values map to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StoreBackend selects where profiles are persisted.
type StoreBackend string

const (
	BackendJSON   StoreBackend = "json"
	BackendBadger StoreBackend = "badger"
)

// Config is the root configuration.
type Config struct {
	LogLevel LogLevel       `yaml:"log_level"`
	Audio    AudioConfig    `yaml:"audio"`
	Store    StoreConfig    `yaml:"store"`
	Recorder RecorderConfig `yaml:"recorder"`

	// Labels are recorded in order by the record command when no label is
	// given.
	Labels []string `yaml:"labels"`
}

// AudioConfig drives live capture for detection.
type AudioConfig struct {
	SampleRate      int           `yaml:"sample_rate"`
	CaptureDuration time.Duration `yaml:"capture_duration"`
	Interval        time.Duration `yaml:"interval"`
	ChunkFrames     int           `yaml:"chunk_frames"`
	DropOnOverflow  bool          `yaml:"drop_on_overflow"`
}

// Capture returns the device configuration for detection clips.
func (a AudioConfig) Capture() capture.Config {
	return capture.Config{
		SampleRate:     a.SampleRate,
		Duration:       a.CaptureDuration,
		ChunkFrames:    a.ChunkFrames,
		DropOnOverflow: a.DropOnOverflow,
	}
}

// StoreConfig locates the metadata and profile stores.
type StoreConfig struct {
	Backend      StoreBackend `yaml:"backend"`
	MetadataPath string       `yaml:"metadata_path"`
	ProfilesPath string       `yaml:"profiles_path"`
	BadgerDir    string       `yaml:"badger_dir"`
}

// RecorderConfig controls training clip capture. Clips share the audio
// section's rate and chunk size.
type RecorderConfig struct {
	Dir      string        `yaml:"dir"`
	Duration time.Duration `yaml:"duration"`
	Interval time.Duration `yaml:"interval"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	live := capture.DefaultConfig()
	return &Config{
		LogLevel: LogInfo,
		Audio: AudioConfig{
			SampleRate:      live.SampleRate,
			CaptureDuration: live.Duration,
			Interval:        detector.DefaultInterval,
			ChunkFrames:     live.ChunkFrames,
		},
		Store: StoreConfig{
			Backend:      BackendJSON,
			MetadataPath: "recordings_metadata.json",
			ProfilesPath: "audio_analysis.json",
			BadgerDir:    "profiles.db",
		},
		Recorder: RecorderConfig{
			Dir:      "recordings",
			Duration: recorder.DefaultDuration,
			Interval: recorder.DefaultInterval,
		},
		Labels: []string{"song", "white-noise"},
	}
}

// RecorderCapture returns the device configuration for training clips.
func (c *Config) RecorderCapture() capture.Config {
	cc := c.Audio.Capture()
	cc.Duration = c.Recorder.Duration
	return cc
}
