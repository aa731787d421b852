// SPDX-License-Identifier: EPL-2.0

package profile

import "gonum.org/v1/gonum/floats"

// Normalize rescales values to [0, 1] by their minimum and maximum. When all
// values are equal every result is 0. The input is not modified.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo
	if span == 0 {
		return out
	}

	for i, v := range values {
		out[i] = (v - lo) / span
	}
	return out
}
