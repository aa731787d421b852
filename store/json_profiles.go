// SPDX-License-Identifier: EPL-2.0

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ik5/audclass/classifier"
	"github.com/ik5/audclass/profile"
)

// JSONProfiles keeps the profile set as one JSON object keyed by label.
type JSONProfiles struct {
	path string
}

func NewJSONProfiles(path string) *JSONProfiles {
	return &JSONProfiles{path: path}
}

func (p *JSONProfiles) Load(ctx context.Context) (*profile.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", classifier.ErrNoReferenceData, p.path)
		}
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	set := profile.NewSet()
	if err := json.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", classifier.ErrNoReferenceData, p.path, err)
	}
	return set, nil
}

func (p *JSONProfiles) Save(ctx context.Context, set *profile.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if set == nil {
		set = profile.NewSet()
	}

	data, err := json.MarshalIndent(set, "", "    ")
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	return writeFileAtomic(p.path, data)
}
