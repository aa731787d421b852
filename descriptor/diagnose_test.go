// SPDX-License-Identifier: EPL-2.0

package descriptor

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/internal/audiotest"
	"gonum.org/v1/gonum/floats"
)

func TestDiagnose_SinePeak(t *testing.T) {
	t.Parallel()

	x := audiotest.Sine(1000, rate, rate, 0.8)
	d, err := Diagnose(audio.NewBuffer(x, rate), 16)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}

	if len(d.Autocorrelation) != 16 {
		t.Fatalf("len(Autocorrelation) = %d, want 16", len(d.Autocorrelation))
	}
	if want := floats.Dot(x, x); math.Abs(d.Autocorrelation[0]-want) > 1e-6*want {
		t.Errorf("Autocorrelation[0] = %v, want %v", d.Autocorrelation[0], want)
	}

	if len(d.PSD) != welchSegment/2+1 || len(d.Frequencies) != len(d.PSD) {
		t.Fatalf("PSD bins = %d, freqs = %d, want %d", len(d.PSD), len(d.Frequencies), welchSegment/2+1)
	}
	peak := d.Frequencies[floats.MaxIdx(d.PSD)]
	if math.Abs(peak-1000) > float64(rate)/welchSegment {
		t.Errorf("PSD peak at %v Hz, want about 1000 Hz", peak)
	}
	if d.Frequencies[len(d.Frequencies)-1] != rate/2 {
		t.Errorf("last frequency = %v, want %v", d.Frequencies[len(d.Frequencies)-1], rate/2)
	}
}

func TestDiagnose_NoisePower(t *testing.T) {
	t.Parallel()

	// Uniform noise on [-1, 1) has variance 1/3; the PSD integrates to it.
	x := audiotest.UniformNoise(13, 4*rate, -1, 1)
	d, err := Diagnose(audio.NewBuffer(x, rate), 0)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}

	df := d.Frequencies[1] - d.Frequencies[0]
	power := floats.Sum(d.PSD) * df
	if math.Abs(power-1.0/3) > 0.03 {
		t.Errorf("integrated PSD = %v, want about %v", power, 1.0/3)
	}
	if len(d.Autocorrelation) != 0 {
		t.Errorf("len(Autocorrelation) = %d, want 0", len(d.Autocorrelation))
	}
}

func TestDiagnose_ShortAndEmpty(t *testing.T) {
	t.Parallel()

	d, err := Diagnose(audio.NewBuffer(audiotest.UniformNoise(2, 100, -1, 1), rate), 500)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}
	if len(d.Autocorrelation) != 100 {
		t.Errorf("len(Autocorrelation) = %d, want 100 (clamped)", len(d.Autocorrelation))
	}
	if len(d.PSD) != 51 {
		t.Errorf("len(PSD) = %d, want 51", len(d.PSD))
	}

	if _, err := Diagnose(audio.NewBuffer(nil, rate), 4); !errors.Is(err, ErrDegenerateSignal) {
		t.Errorf("Diagnose(empty) error = %v, want ErrDegenerateSignal", err)
	}
}
