// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"math"
	"math/rand/v2"
)

// Sine returns n samples of a sine at freq Hz with the given amplitude.
func Sine(freq float64, rate, n int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

// UniformNoise returns n samples drawn uniformly from [lo, hi) with a fixed
// seed so tests stay reproducible.
func UniformNoise(seed uint64, n int, lo, hi float64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*rng.Float64()
	}
	return out
}

// Silence returns n zero samples.
func Silence(n int) []float64 {
	return make([]float64, n)
}

// Affine returns a*x+b for every sample of x.
func Affine(x []float64, a, b float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = a*v + b
	}
	return out
}
