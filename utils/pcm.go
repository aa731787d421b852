// SPDX-License-Identifier: EPL-2.0

package utils

// Float64ToInt16 clamps x to [-1, 1] and scales it to 16-bit PCM.
func Float64ToInt16(x float64) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 for both signs keeps the range symmetric and avoids overflow
	return int16(x * 32767.0)
}

// Int16ToFloat64 scales a 16-bit PCM sample to [-1, 1).
func Int16ToFloat64(v int16) float64 {
	return float64(v) / 32768.0
}

// IntToFloat64 scales an integer sample of the given bit depth to [-1, 1).
// Unknown depths are treated as 16-bit.
func IntToFloat64(v int, bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return float64(v) / 128.0
	case 24:
		return float64(v) / 8388608.0
	case 32:
		return float64(v) / 2147483648.0
	default:
		return float64(v) / 32768.0
	}
}
