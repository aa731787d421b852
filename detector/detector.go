// SPDX-License-Identifier: EPL-2.0

// Package detector runs the real-time loop: capture a clip, classify it,
// report the verdict, wait, repeat.
package detector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ik5/audclass/capture"
	"github.com/ik5/audclass/classifier"
	"github.com/ik5/audclass/profile"
	"github.com/ik5/audclass/report"
)

// ErrNotLoaded is returned by Run when Load has not succeeded.
var ErrNotLoaded = errors.New("detector: profiles not loaded")

// DefaultInterval is the pause between iterations.
const DefaultInterval = time.Second

// State is the lifecycle position of a Detector.
type State int32

const (
	Idle State = iota
	Loaded
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// ProfileLoader supplies the reference profiles.
type ProfileLoader interface {
	Load(ctx context.Context) (*profile.Set, error)
}

// Option configures a Detector.
type Option func(*Detector)

// WithInterval sets the pause between iterations.
func WithInterval(d time.Duration) Option {
	return func(det *Detector) { det.interval = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(det *Detector) { det.logger = l }
}

// Detector classifies live audio until its context ends. A Detector runs
// once: after Run returns it stays Stopped.
type Detector struct {
	profiles ProfileLoader
	device   capture.Device
	reporter report.Reporter
	interval time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	state State
	set   *profile.Set
}

func New(profiles ProfileLoader, device capture.Device, reporter report.Reporter, opts ...Option) *Detector {
	d := &Detector{
		profiles: profiles,
		device:   device,
		reporter: reporter,
		interval: DefaultInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Detector) setState(s State) {
	d.mu.Lock()
	prev := d.state
	d.state = s
	d.mu.Unlock()

	if prev != s {
		d.logger.Debug("detector state", "state", s.String(), "from", prev.String())
	}
}

// Load reads the reference profiles once. Without usable profiles the
// detector moves to Stopped and Load returns classifier.ErrNoReferenceData.
func (d *Detector) Load(ctx context.Context) error {
	if s := d.State(); s != Idle {
		return fmt.Errorf("detector: Load in state %s", s)
	}

	set, err := d.profiles.Load(ctx)
	if err == nil && set.Len() == 0 {
		err = classifier.ErrNoReferenceData
	}
	if err != nil {
		d.setState(Stopped)
		if errors.Is(err, classifier.ErrNoReferenceData) {
			return err
		}
		return fmt.Errorf("%w: %w", classifier.ErrNoReferenceData, err)
	}

	d.mu.Lock()
	d.set = set
	d.mu.Unlock()

	d.setState(Loaded)
	d.logger.Info("reference profiles loaded", "labels", set.Labels())
	return nil
}

// Run opens the device and loops until ctx is done, which is a clean stop
// and returns nil. A lost device ends the loop with an error; any other
// capture or classification failure only skips the iteration.
func (d *Detector) Run(ctx context.Context) error {
	if s := d.State(); s != Loaded {
		return fmt.Errorf("%w: state %s", ErrNotLoaded, s)
	}

	d.setState(Running)
	defer d.setState(Stopped)

	if err := d.device.Open(); err != nil {
		return fmt.Errorf("open capture device: %w", err)
	}
	defer func() {
		if err := d.device.Close(); err != nil {
			d.logger.Warn("closing capture device", "err", err)
		}
	}()

	d.logger.Info("detection started")
	for iteration := 1; ; iteration++ {
		if ctx.Err() != nil {
			break
		}

		if err := d.iterate(ctx, iteration); err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}

		if !sleep(ctx, d.interval) {
			break
		}
	}

	d.logger.Info("detection stopped")
	return nil
}

// iterate runs one capture-classify-report cycle. Only fatal errors are
// returned.
func (d *Detector) iterate(ctx context.Context, iteration int) error {
	buf, err := d.device.Capture(ctx)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, capture.ErrDeviceLost):
			return fmt.Errorf("capture: %w", err)
		case errors.Is(err, capture.ErrOverrun):
			d.logger.Warn("capture overrun, clip discarded", "iteration", iteration, "err", err)
		default:
			d.logger.Warn("capture failed", "iteration", iteration, "err", err)
		}
		return nil
	}

	res, err := classifier.Classify(buf.NormalizePeak(), d.set)
	if err != nil {
		d.logger.Warn("classification failed", "iteration", iteration, "err", err)
		return nil
	}

	d.logger.Debug("classified", "iteration", iteration, "label", res.Label)
	d.reporter.Report(res)
	return nil
}

// sleep waits for dur and reports false if ctx ended first.
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
