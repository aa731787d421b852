// SPDX-License-Identifier: EPL-2.0

package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/descriptor"
	"github.com/ik5/audclass/internal/audiotest"
)

const rate = 44100

// mapLoader serves buffers by path; unknown paths behave like missing files.
type mapLoader struct {
	mu    sync.Mutex
	files map[string]audio.Buffer
	calls int
}

func (m *mapLoader) Load(_ context.Context, path string) (audio.Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	buf, ok := m.files[path]
	if !ok {
		return audio.Buffer{}, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return buf, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func trainingSet() (*mapLoader, []Sample) {
	l := &mapLoader{files: map[string]audio.Buffer{
		"song_1.wav":  audio.NewBuffer(audiotest.Sine(440, rate, rate, 0.8), rate),
		"song_2.wav":  audio.NewBuffer(audiotest.Sine(660, rate, rate, 0.5), rate),
		"noise_1.wav": audio.NewBuffer(audiotest.UniformNoise(1, rate, 0, 1), rate),
		"noise_2.wav": audio.NewBuffer(audiotest.UniformNoise(2, rate, 0, 1), rate),
	}}
	samples := []Sample{
		{Label: "song", Path: "song_1.wav"},
		{Label: "white-noise", Path: "noise_1.wav"},
		{Label: "song", Path: "song_2.wav"},
		{Label: "white-noise", Path: "noise_2.wav"},
	}
	return l, samples
}

func TestAggregator_TwoClasses(t *testing.T) {
	t.Parallel()

	l, samples := trainingSet()
	set, err := NewAggregator(l, WithLogger(discard())).Aggregate(context.Background(), samples)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if got := set.Labels(); !slices.Equal(got, []string{"song", "white-noise"}) {
		t.Fatalf("Labels() = %v", got)
	}

	song, _ := set.Get("song")
	noise, _ := set.Get("white-noise")

	// Zero-mean sines sit at 0 dB, offset uniform noise near 6 dB.
	if math.Abs(noise.SNR-song.SNR) < 3 {
		t.Errorf("SNR song = %v, noise = %v, want clearly different", song.SNR, noise.SNR)
	}
	for label, p := range set.All() {
		for i, v := range p.Values()[:3] {
			if v < 0 || v > 1 {
				t.Errorf("%s %s = %v, want within [0, 1]", label, descriptor.Fields[i], v)
			}
		}
		for i, v := range p.Values() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s %s = %v, want finite", label, descriptor.Fields[i], v)
			}
		}
	}
}

func TestAggregator_RawMeans(t *testing.T) {
	t.Parallel()

	l, samples := trainingSet()
	set, err := NewAggregator(l, WithLogger(discard())).Aggregate(context.Background(), samples)
	if err != nil {
		t.Fatal(err)
	}

	v1, _ := descriptor.Batch(l.files["song_1.wav"])
	v2, _ := descriptor.Batch(l.files["song_2.wav"])
	song, _ := set.Get("song")

	if want := (v1.Kurtosis + v2.Kurtosis) / 2; math.Abs(song.Kurtosis-want) > 1e-12 {
		t.Errorf("Kurtosis = %v, want %v", song.Kurtosis, want)
	}
	if want := (v1.DynamicRange + v2.DynamicRange) / 2; math.Abs(song.DynamicRange-want) > 1e-12 {
		t.Errorf("DynamicRange = %v, want %v", song.DynamicRange, want)
	}
	// Two samples normalize to {0, 1}, so the mean is exactly one half.
	if song.Autocorrelation != 0.5 || song.Spectral != 0.5 {
		t.Errorf("normalized means = %v, %v, want 0.5", song.Autocorrelation, song.Spectral)
	}
}

func TestAggregator_Idempotent(t *testing.T) {
	t.Parallel()

	l, samples := trainingSet()
	agg := NewAggregator(l, WithLogger(discard()))

	first, err := agg.Aggregate(context.Background(), samples)
	if err != nil {
		t.Fatal(err)
	}
	second, err := agg.Aggregate(context.Background(), samples)
	if err != nil {
		t.Fatal(err)
	}

	for label, p := range first.All() {
		q, ok := second.Get(label)
		if !ok || p != q {
			t.Errorf("%s: %+v != %+v", label, p, q)
		}
	}
}

func TestAggregator_SkipsMissingSources(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	l, samples := trainingSet()
	samples = append(samples,
		Sample{Label: "song", Path: "gone.wav"},
		Sample{Label: "speech", Path: "also-gone.wav"},
	)

	set, err := NewAggregator(l, WithLogger(slog.New(slog.NewTextHandler(&logs, nil)))).
		Aggregate(context.Background(), samples)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if _, ok := set.Get("speech"); ok {
		t.Error("label without located samples was emitted")
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}
	if !strings.Contains(logs.String(), "gone.wav") || !strings.Contains(logs.String(), ErrMissingSource.Error()) {
		t.Errorf("missing source not logged: %s", logs.String())
	}
}

func TestAggregator_Empty(t *testing.T) {
	t.Parallel()

	set, err := NewAggregator(&mapLoader{}, WithLogger(discard())).Aggregate(context.Background(), nil)
	if err != nil || set.Len() != 0 {
		t.Errorf("Aggregate(nil) = %d labels, %v; want empty set", set.Len(), err)
	}
}

func TestAggregator_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l, samples := trainingSet()
	if _, err := NewAggregator(l).Aggregate(ctx, samples); !errors.Is(err, context.Canceled) {
		t.Errorf("Aggregate() error = %v, want context.Canceled", err)
	}
	if l.calls != 0 {
		t.Errorf("loader called %d times after cancel", l.calls)
	}
}

func TestAggregator_SampleFunc(t *testing.T) {
	t.Parallel()

	l, samples := trainingSet()
	var seen []string
	hook := func(_ context.Context, s Sample, buf audio.Buffer) error {
		seen = append(seen, s.Path)
		if buf.SampleRate != rate {
			t.Errorf("%s: rate %d", s.Path, buf.SampleRate)
		}
		return errors.New("hook failure is only logged")
	}

	set, err := NewAggregator(l, WithLogger(discard()), WithSampleFunc(hook)).
		Aggregate(context.Background(), samples)
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != len(samples) || set.Len() != 2 {
		t.Errorf("hook saw %v, set has %d labels", seen, set.Len())
	}
}
