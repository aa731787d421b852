// SPDX-License-Identifier: EPL-2.0

package detector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/capture"
	"github.com/ik5/audclass/capture/mock"
	"github.com/ik5/audclass/classifier"
	"github.com/ik5/audclass/internal/audiotest"
	"github.com/ik5/audclass/profile"
	"github.com/ik5/audclass/store"
)

const rate = 44100

type recorder struct {
	mu      sync.Mutex
	results []classifier.Result
	onReport func(n int)
}

func (r *recorder) Report(res classifier.Result) {
	r.mu.Lock()
	r.results = append(r.results, res)
	n := len(r.results)
	hook := r.onReport
	r.mu.Unlock()

	if hook != nil {
		hook(n)
	}
}

func (r *recorder) Results() []classifier.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]classifier.Result(nil), r.results...)
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func profiles(t *testing.T) *store.MemoryProfiles {
	t.Helper()

	set := profile.NewSet()
	set.Put("song", profile.Profile{Kurtosis: -1.5, DynamicRange: 2})
	set.Put("white-noise", profile.Profile{Kurtosis: -1.2, SNR: 6, DynamicRange: 1})

	s := &store.MemoryProfiles{}
	if err := s.Save(context.Background(), set); err != nil {
		t.Fatal(err)
	}
	return s
}

func sine() audio.Buffer {
	return audio.NewBuffer(audiotest.Sine(440, rate, rate/4, 0.25), rate)
}

func TestDetector_RefusesWithoutProfiles(t *testing.T) {
	t.Parallel()

	empty := &store.MemoryProfiles{}
	if err := empty.Save(context.Background(), profile.NewSet()); err != nil {
		t.Fatal(err)
	}

	for name, src := range map[string]ProfileLoader{
		"never saved": &store.MemoryProfiles{},
		"empty set":   empty,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dev := &mock.Device{}
			det := New(src, dev, &recorder{}, quiet())

			if err := det.Load(context.Background()); !errors.Is(err, classifier.ErrNoReferenceData) {
				t.Fatalf("Load() error = %v, want ErrNoReferenceData", err)
			}
			if det.State() != Stopped {
				t.Errorf("State() = %v, want stopped", det.State())
			}

			if err := det.Run(context.Background()); !errors.Is(err, ErrNotLoaded) {
				t.Errorf("Run() error = %v, want ErrNotLoaded", err)
			}
			if opened, _, _ := dev.Counts(); opened != 0 {
				t.Errorf("device opened %d times", opened)
			}
			if det.State() != Stopped {
				t.Errorf("State() = %v, want stopped", det.State())
			}
		})
	}
}

func TestDetector_RunBeforeLoad(t *testing.T) {
	t.Parallel()

	det := New(profiles(t), &mock.Device{}, &recorder{}, quiet())
	if err := det.Run(context.Background()); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Run() error = %v, want ErrNotLoaded", err)
	}
	if det.State() != Idle {
		t.Errorf("State() = %v, want idle", det.State())
	}
}

func TestDetector_RunUntilCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rep := &recorder{}
	dev := &mock.Device{Fallback: &mock.Step{Buffer: sine()}}
	det := New(profiles(t), dev, rep, quiet(), WithInterval(time.Millisecond))

	dev.OnCapture = func(int) {
		if s := det.State(); s != Running {
			t.Errorf("State() during capture = %v, want running", s)
		}
	}
	rep.onReport = func(n int) {
		if n == 3 {
			cancel()
		}
	}

	if err := det.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if det.State() != Loaded {
		t.Fatalf("State() = %v, want loaded", det.State())
	}

	if err := det.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if n := len(rep.Results()); n != 3 {
		t.Errorf("reported %d results, want 3", n)
	}
	opened, captures, closed := dev.Counts()
	if opened != 1 || closed != 1 || captures != 3 {
		t.Errorf("device open/capture/close = %d/%d/%d, want 1/3/1", opened, captures, closed)
	}
	if det.State() != Stopped {
		t.Errorf("State() = %v, want stopped", det.State())
	}

	// Captured clips are peak normalized before classification.
	if r := rep.Results()[0].Vector.DynamicRange; math.Abs(r-2) > 1e-3 {
		t.Errorf("DynamicRange = %v, want about 2", r)
	}
}

func TestDetector_TransientErrors(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rep := &recorder{}
	dev := &mock.Device{Script: []mock.Step{
		{Err: capture.ErrOverrun},
		{Err: errors.New("glitch")},
		{Buffer: audio.NewBuffer(nil, rate)},
		{Buffer: sine()},
	}}
	dev.OnCapture = func(call int) {
		if call == 4 {
			cancel()
		}
	}

	det := New(profiles(t), dev, rep, quiet(), WithInterval(0))
	if err := det.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if err := det.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// The empty clip still classifies; the two failed captures do not.
	if n := len(rep.Results()); n != 2 {
		t.Errorf("reported %d results, want 2", n)
	}
}

func TestDetector_DeviceLost(t *testing.T) {
	t.Parallel()

	rep := &recorder{}
	dev := &mock.Device{Script: []mock.Step{
		{Buffer: sine()},
		{Err: capture.ErrDeviceLost},
		{Buffer: sine()},
	}}

	det := New(profiles(t), dev, rep, quiet(), WithInterval(0))
	if err := det.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	err := det.Run(context.Background())
	if !errors.Is(err, capture.ErrDeviceLost) {
		t.Fatalf("Run() error = %v, want ErrDeviceLost", err)
	}
	if n := len(rep.Results()); n != 1 {
		t.Errorf("reported %d results, want 1", n)
	}
	if _, captures, closed := dev.Counts(); captures != 2 || closed != 1 {
		t.Errorf("captures/closed = %d/%d, want 2/1", captures, closed)
	}
	if det.State() != Stopped {
		t.Errorf("State() = %v, want stopped", det.State())
	}
}

func TestDetector_OpenFails(t *testing.T) {
	t.Parallel()

	dev := &mock.Device{OpenErr: capture.ErrDeviceLost}
	det := New(profiles(t), dev, &recorder{}, quiet())
	if err := det.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := det.Run(context.Background()); !errors.Is(err, capture.ErrDeviceLost) {
		t.Errorf("Run() error = %v, want ErrDeviceLost", err)
	}
	if _, captures, closed := dev.Counts(); captures != 0 || closed != 0 {
		t.Errorf("captures/closed = %d/%d, want 0/0", captures, closed)
	}
	if det.State() != Stopped {
		t.Errorf("State() = %v, want stopped", det.State())
	}
}

func TestDetector_CancelDuringWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rep := &recorder{onReport: func(int) { cancel() }}
	dev := &mock.Device{Fallback: &mock.Step{Buffer: sine()}}
	det := New(profiles(t), dev, rep, quiet(), WithInterval(time.Hour))
	if err := det.Load(ctx); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- det.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestDetector_CancelDuringCapture(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// No script and no fallback: Capture blocks until ctx ends.
	dev := &mock.Device{}
	det := New(profiles(t), dev, &recorder{}, quiet())
	if err := det.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := det.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil", err)
	}
	if _, _, closed := dev.Counts(); closed != 1 {
		t.Errorf("closed = %d, want 1", closed)
	}
}

func TestDetector_LoadTwice(t *testing.T) {
	t.Parallel()

	det := New(profiles(t), &mock.Device{}, &recorder{}, quiet())
	if err := det.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := det.Load(context.Background()); err == nil {
		t.Error("second Load() error = nil")
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	for s, want := range map[State]string{Idle: "idle", Loaded: "loaded", Running: "running", Stopped: "stopped", State(7): "State(7)"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int32(s), s.String(), want)
		}
	}
}
