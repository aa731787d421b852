// SPDX-License-Identifier: EPL-2.0

// Package recorder captures labelled training clips from a capture device
// and registers them in a metadata store.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/capture"
	"github.com/ik5/audclass/formats/wav"
	"github.com/ik5/audclass/store"
)

// Defaults for training clips.
const (
	DefaultDuration = 3 * time.Second
	DefaultInterval = 4 * time.Second
)

var ErrInvalidLabel = errors.New("invalid label")

// Option configures a Recorder.
type Option func(*Recorder)

// WithInterval sets the pause between clips.
func WithInterval(d time.Duration) Option {
	return func(r *Recorder) { r.interval = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// WithClock replaces time.Now for file names and timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// Recorder writes clips as <label>_<unix>.wav under a directory.
type Recorder struct {
	device   capture.Device
	meta     store.MetadataStore
	dir      string
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func New(device capture.Device, meta store.MetadataStore, dir string, opts ...Option) *Recorder {
	r := &Recorder{
		device:   device,
		meta:     meta,
		dir:      dir,
		interval: DefaultInterval,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record captures count clips for label. Metadata for every clip written is
// appended once recording ends, including when ctx is canceled between
// clips; cancellation itself is not an error. A lost device stops recording
// and is returned after the metadata is saved.
func (r *Recorder) Record(ctx context.Context, label string, count int) ([]store.Recording, error) {
	if label == "" || strings.ContainsAny(label, `/\`) || label == "." || label == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recordings dir: %w", err)
	}

	if err := r.device.Open(); err != nil {
		return nil, fmt.Errorf("open capture device: %w", err)
	}
	defer func() {
		if err := r.device.Close(); err != nil {
			r.logger.Warn("closing capture device", "err", err)
		}
	}()

	var (
		recs     []store.Recording
		fatalErr error
	)

	for i := range count {
		if i > 0 && !sleep(ctx, r.interval) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		rec, err := r.clip(ctx, label)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if errors.Is(err, capture.ErrDeviceLost) {
				fatalErr = err
				break
			}
			r.logger.Warn("clip skipped", "label", label, "clip", i+1, "err", err)
			continue
		}

		r.logger.Info("clip saved", "label", label, "path", rec.Path, "clip", i+1, "of", count)
		recs = append(recs, rec)
	}

	if len(recs) > 0 {
		// Saved even after cancellation, so a detached context is used.
		if err := r.meta.Append(context.WithoutCancel(ctx), recs...); err != nil {
			return recs, errors.Join(fatalErr, fmt.Errorf("append metadata: %w", err))
		}
	}
	return recs, fatalErr
}

func (r *Recorder) clip(ctx context.Context, label string) (store.Recording, error) {
	buf, err := r.device.Capture(ctx)
	if err != nil {
		return store.Recording{}, err
	}

	ts := r.now().Unix()
	name, path, err := r.reserve(label, ts)
	if err != nil {
		return store.Recording{}, err
	}

	if err := writeClip(path, buf); err != nil {
		return store.Recording{}, err
	}

	return store.Recording{Label: label, File: name, Path: path, Timestamp: ts}, nil
}

// reserve picks a file name that does not exist yet. Clips taken within the
// same second get a numeric suffix.
func (r *Recorder) reserve(label string, ts int64) (name, path string, err error) {
	for n := 0; n < 1000; n++ {
		name = fmt.Sprintf("%s_%d.wav", label, ts)
		if n > 0 {
			name = fmt.Sprintf("%s_%d-%d.wav", label, ts, n)
		}
		path = filepath.Join(r.dir, name)

		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return name, path, nil
		}
	}
	return "", "", fmt.Errorf("no free file name for %s at %d", label, ts)
}

func writeClip(path string, buf audio.Buffer) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create clip: %w", err)
	}

	if err := wav.WriteBuffer(f, buf); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func sleep(ctx context.Context, dur time.Duration) bool {
	if dur <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
