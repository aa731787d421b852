// SPDX-License-Identifier: EPL-2.0

package descriptor

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Short-time spectrum parameters for the live spectral entropy.
const (
	stftSize = 1024
	stftHop  = 256
)

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// autocorrelation returns the un-normalized autocorrelation of x for lags
// 0..len(x)-1, computed through a zero-padded FFT.
func autocorrelation(x []float64) []float64 {
	n := len(x)
	m := nextPow2(2*n - 1)

	padded := make([]float64, m)
	copy(padded, x)

	fft := fourier.NewFFT(m)
	coeff := fft.Coefficients(nil, padded)
	for i, c := range coeff {
		re, im := real(c), imag(c)
		coeff[i] = complex(re*re+im*im, 0)
	}

	seq := fft.Sequence(padded, coeff)
	out := seq[:n]
	floats.Scale(1/float64(m), out)
	return out
}

// meanMagnitude is the mean magnitude of the full n-point DFT of x.
func meanMagnitude(x []float64) float64 {
	seq := make([]complex128, len(x))
	for i, v := range x {
		seq[i] = complex(v, 0)
	}

	fft := fourier.NewCmplxFFT(len(x))
	coeff := fft.Coefficients(seq, seq)

	var sum float64
	for _, c := range coeff {
		sum += cmplx.Abs(c)
	}
	return sum / float64(len(coeff))
}

// periodicHann returns a Hann window of length n that is periodic in n, as
// used for spectral analysis.
func periodicHann(n int) []float64 {
	if n == 1 {
		return []float64{1}
	}
	w := make([]float64, n+1)
	for i := range w {
		w[i] = 1
	}
	return window.Hann(w)[:n]
}

// magnitudeSpectrogramMean returns the per-bin mean STFT magnitude of x.
// Frames are centred, so x is padded with size/2 zeros on both sides.
func magnitudeSpectrogramMean(x []float64, size, hop int) []float64 {
	padded := make([]float64, len(x)+size)
	copy(padded[size/2:], x)

	win := periodicHann(size)
	fft := fourier.NewFFT(size)

	bins := size/2 + 1
	mean := make([]float64, bins)
	frame := make([]float64, size)
	coeff := make([]complex128, bins)

	frames := 1 + (len(padded)-size)/hop
	for f := range frames {
		floats.MulTo(frame, padded[f*hop:f*hop+size], win)
		coeff = fft.Coefficients(coeff, frame)
		for k, c := range coeff {
			mean[k] += cmplx.Abs(c)
		}
	}

	floats.Scale(1/float64(frames), mean)
	return mean
}

// spectralEntropy is the Shannon entropy, in nats, of the normalized mean
// magnitude spectrum of x.
func spectralEntropy(x []float64) float64 {
	mag := magnitudeSpectrogramMean(x, stftSize, stftHop)

	total := floats.Sum(mag)
	if total <= 0 || math.IsNaN(total) {
		return 0
	}
	floats.Scale(1/total, mag)

	return stat.Entropy(mag)
}
