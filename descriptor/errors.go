// SPDX-License-Identifier: EPL-2.0

package descriptor

import "errors"

// ErrDegenerateSignal is returned for buffers with no samples. The vector
// returned alongside it is zero-filled with SNR at the variant's floor.
var ErrDegenerateSignal = errors.New("degenerate signal")
