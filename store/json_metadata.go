// SPDX-License-Identifier: EPL-2.0

package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
)

// JSONMetadata keeps recordings as a JSON array in a single file.
type JSONMetadata struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

func NewJSONMetadata(path string, logger *slog.Logger) *JSONMetadata {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONMetadata{path: path, logger: logger}
}

// Load returns the stored recordings. A missing or unreadable file is
// treated as an empty list.
func (m *JSONMetadata) Load(ctx context.Context) ([]Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.read(), nil
}

func (m *JSONMetadata) read() []Recording {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("cannot read metadata, starting empty", "path", m.path, "err", err)
		}
		return []Recording{}
	}

	var recs []Recording
	if err := json.Unmarshal(data, &recs); err != nil {
		m.logger.Warn("corrupt metadata, starting empty", "path", m.path, "err", err)
		return []Recording{}
	}
	if recs == nil {
		recs = []Recording{}
	}
	return recs
}

// Append adds recs after the existing entries and rewrites the file.
func (m *JSONMetadata) Append(ctx context.Context, recs ...Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all := append(m.read(), recs...)
	data, err := json.MarshalIndent(all, "", "    ")
	if err != nil {
		return err
	}
	return writeFileAtomic(m.path, data)
}
