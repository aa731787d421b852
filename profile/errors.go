// SPDX-License-Identifier: EPL-2.0

package profile

import "errors"

// ErrMissingSource marks a training sample whose audio file could not be
// located. Such samples are skipped.
var ErrMissingSource = errors.New("training source not found")
