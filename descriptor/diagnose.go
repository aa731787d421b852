// SPDX-License-Identifier: EPL-2.0

package descriptor

import (
	"github.com/ik5/audclass/audio"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// welchSegment is the default Welch segment length.
const welchSegment = 1024

// Diagnostics is a machine-readable view of a sample: the leading part of its
// autocorrelation and its power spectral density.
type Diagnostics struct {
	SampleRate      int       `json:"sample_rate"`
	Autocorrelation []float64 `json:"autocorrelation"`
	Frequencies     []float64 `json:"frequencies"`
	PSD             []float64 `json:"psd"`
}

// Diagnose returns the first lags autocorrelation values of buf together with
// a Welch PSD estimate (Hann window, 50% overlap, density scaling).
func Diagnose(buf audio.Buffer, lags int) (Diagnostics, error) {
	if err := buf.Validate(); err != nil {
		return Diagnostics{}, err
	}
	if buf.Len() == 0 {
		return Diagnostics{SampleRate: buf.SampleRate}, ErrDegenerateSignal
	}

	ac := autocorrelation(buf.Samples)
	lags = min(max(lags, 0), len(ac))

	freqs, psd := welch(buf.Samples, float64(buf.SampleRate), welchSegment)

	return Diagnostics{
		SampleRate:      buf.SampleRate,
		Autocorrelation: append([]float64(nil), ac[:lags]...),
		Frequencies:     freqs,
		PSD:             psd,
	}, nil
}

// welch estimates the one-sided power spectral density of x. Each segment has
// its mean removed before windowing. Signals shorter than nperseg are
// analysed as a single segment of their own length.
func welch(x []float64, fs float64, nperseg int) (freqs, psd []float64) {
	nperseg = min(nperseg, len(x))
	step := nperseg - nperseg/2

	win := periodicHann(nperseg)
	scale := 1 / (fs * floats.Dot(win, win))

	fft := fourier.NewFFT(nperseg)
	bins := nperseg/2 + 1
	psd = make([]float64, bins)
	seg := make([]float64, nperseg)
	coeff := make([]complex128, bins)

	segments := 1 + (len(x)-nperseg)/step
	for s := range segments {
		part := x[s*step : s*step+nperseg]
		mean := stat.Mean(part, nil)
		for i, v := range part {
			seg[i] = (v - mean) * win[i]
		}

		coeff = fft.Coefficients(coeff, seg)
		for k, c := range coeff {
			re, im := real(c), imag(c)
			psd[k] += re*re + im*im
		}
	}

	floats.Scale(scale/float64(segments), psd)

	// Fold the negative frequencies in; DC and an even-length Nyquist bin
	// have no mirror.
	last := bins
	if nperseg%2 == 0 {
		last = bins - 1
	}
	for k := 1; k < last; k++ {
		psd[k] *= 2
	}

	freqs = make([]float64, bins)
	for k := range freqs {
		freqs[k] = float64(k) * fs / float64(nperseg)
	}
	return freqs, psd
}
