// SPDX-License-Identifier: EPL-2.0

// Package descriptor computes the seven-component statistical summary of a
// mono buffer that profiles and live classification are built on.
//
// Two entry points exist and they differ only in the third component:
// Batch stores the mean DFT magnitude, Live stores the spectral entropy of
// a short-time spectrum. Profiles are built from Batch vectors and live
// audio is classified with Live vectors.
package descriptor

import (
	"fmt"
	"math"

	"github.com/ik5/audclass/audio"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SNR floors used when the deviation power is zero.
const (
	BatchSNRFloor = 0.0
	LiveSNRFloor  = -50.0
)

// NumFields is the length of a vector.
const NumFields = 7

// Variant records how the Spectral field of a Vector was computed.
type Variant int

const (
	VariantBatch Variant = iota
	VariantLive
)

func (v Variant) String() string {
	switch v {
	case VariantBatch:
		return "batch"
	case VariantLive:
		return "live"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Vector is a descriptor vector. Field order is significant and matches
// Fields.
type Vector struct {
	Autocorrelation float64
	Autocovariance  float64
	// Spectral is the mean DFT magnitude for VariantBatch and the spectral
	// entropy in nats for VariantLive.
	Spectral     float64
	Kurtosis     float64
	Skewness     float64
	SNR          float64
	DynamicRange float64

	Variant Variant
}

// Fields names the vector components in order.
var Fields = [NumFields]string{
	"autocorrelation",
	"autocovariance",
	"spectral",
	"kurtosis",
	"skewness",
	"snr",
	"dynamic_range",
}

// Values returns the components in Fields order.
func (v Vector) Values() [NumFields]float64 {
	return [NumFields]float64{
		v.Autocorrelation,
		v.Autocovariance,
		v.Spectral,
		v.Kurtosis,
		v.Skewness,
		v.SNR,
		v.DynamicRange,
	}
}

// Batch computes the vector used when building profiles.
func Batch(buf audio.Buffer) (Vector, error) {
	v, err := common(buf, BatchSNRFloor)
	v.Variant = VariantBatch
	if err != nil {
		return v, err
	}

	v.Spectral = meanMagnitude(buf.Samples)
	return v, nil
}

// Live computes the vector used for real-time classification.
func Live(buf audio.Buffer) (Vector, error) {
	v, err := common(buf, LiveSNRFloor)
	v.Variant = VariantLive
	if err != nil {
		return v, err
	}

	v.Spectral = spectralEntropy(buf.Samples)
	return v, nil
}

// common fills every field except Spectral.
func common(buf audio.Buffer, snrFloor float64) (Vector, error) {
	v := Vector{SNR: snrFloor}

	if err := buf.Validate(); err != nil {
		return v, err
	}
	x := buf.Samples
	if len(x) == 0 {
		return v, ErrDegenerateSignal
	}

	mean := stat.Mean(x, nil)
	acMean := floats.Sum(autocorrelation(x)) / float64(len(x))

	v.Autocorrelation = acMean
	v.Autocovariance = acMean - mean*mean
	v.DynamicRange = floats.Max(x) - floats.Min(x)

	// A constant buffer can leave a rounding residue in m2, so a flat
	// signal is detected by its range.
	if v.DynamicRange == 0 {
		return v, nil
	}
	m2 := stat.Moment(2, x, nil)
	if m2 > 0 {
		v.Kurtosis = stat.Moment(4, x, nil)/(m2*m2) - 3
		v.Skewness = stat.Moment(3, x, nil) / math.Pow(m2, 1.5)

		power := floats.Dot(x, x) / float64(len(x))
		v.SNR = 10 * math.Log10(power/m2)
	}

	return v, nil
}
