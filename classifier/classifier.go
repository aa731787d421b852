// SPDX-License-Identifier: EPL-2.0

// Package classifier assigns a label to live audio by weighted distance to
// reference profiles.
package classifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/descriptor"
	"github.com/ik5/audclass/profile"
)

// ErrNoReferenceData means there is no profile to compare against.
var ErrNoReferenceData = errors.New("no reference profiles available")

// Weights per component, in descriptor.Fields order.
var Weights = [descriptor.NumFields]float64{
	1, // autocorrelation
	1, // autocovariance
	3, // spectral
	2, // kurtosis
	1, // skewness
	2, // snr
	1, // dynamic range
}

// Distance is the distance from a vector to one label's profile.
type Distance struct {
	Label    string
	Distance float64
}

// Result is the outcome of classifying one buffer.
type Result struct {
	Label     string
	Vector    descriptor.Vector
	Distances []Distance // in set order
}

// Classify computes the live vector of buf and returns the label of the
// nearest profile. Equal distances resolve to the label that comes first in
// the set. A degenerate buffer is classified from its zero vector.
func Classify(buf audio.Buffer, set *profile.Set) (Result, error) {
	if set.Len() == 0 {
		return Result{}, ErrNoReferenceData
	}

	vec, err := descriptor.Live(buf)
	if err != nil && !errors.Is(err, descriptor.ErrDegenerateSignal) {
		return Result{}, fmt.Errorf("live descriptors: %w", err)
	}

	return Nearest(vec, set)
}

// Nearest picks the profile closest to vec.
func Nearest(vec descriptor.Vector, set *profile.Set) (Result, error) {
	if set.Len() == 0 {
		return Result{}, ErrNoReferenceData
	}

	res := Result{Vector: vec, Distances: make([]Distance, 0, set.Len())}
	best := math.Inf(1)

	for label, p := range set.All() {
		d := WeightedDistance(vec.Values(), p.Values())
		res.Distances = append(res.Distances, Distance{Label: label, Distance: d})

		if len(res.Distances) == 1 || d < best {
			best = d
			res.Label = label
		}
	}

	return res, nil
}

// WeightedDistance is sqrt(Σ wᵢ(aᵢ-bᵢ)²) with Weights.
func WeightedDistance(a, b [descriptor.NumFields]float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += Weights[i] * d * d
	}
	return math.Sqrt(sum)
}
