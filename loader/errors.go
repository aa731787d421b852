// SPDX-License-Identifier: EPL-2.0

package loader

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFound wraps os.ErrNotExist so callers can test for either.
	ErrNotFound          = fmt.Errorf("audio file not found: %w", os.ErrNotExist)
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)
