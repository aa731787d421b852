// SPDX-License-Identifier: EPL-2.0

package store

import (
	"context"
	"slices"
	"sync"

	"github.com/ik5/audclass/classifier"
	"github.com/ik5/audclass/profile"
)

var (
	_ MetadataStore = (*MemoryMetadata)(nil)
	_ MetadataStore = (*JSONMetadata)(nil)
	_ ProfileStore  = (*MemoryProfiles)(nil)
	_ ProfileStore  = (*JSONProfiles)(nil)
	_ ProfileStore  = (*BadgerProfiles)(nil)
)

// MemoryMetadata is a MetadataStore held in process memory.
type MemoryMetadata struct {
	mu   sync.Mutex
	recs []Recording
}

func (m *MemoryMetadata) Load(ctx context.Context) ([]Recording, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := slices.Clone(m.recs)
	if out == nil {
		out = []Recording{}
	}
	return out, nil
}

func (m *MemoryMetadata) Append(ctx context.Context, recs ...Recording) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.recs = append(m.recs, recs...)
	return nil
}

// MemoryProfiles is a ProfileStore held in process memory. Sets are copied
// on the way in and out.
type MemoryProfiles struct {
	mu  sync.Mutex
	set *profile.Set
}

func (m *MemoryProfiles) Load(ctx context.Context) (*profile.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.set == nil {
		return nil, classifier.ErrNoReferenceData
	}
	return cloneSet(m.set), nil
}

func (m *MemoryProfiles) Save(ctx context.Context, set *profile.Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if set == nil {
		set = profile.NewSet()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.set = cloneSet(set)
	return nil
}

func cloneSet(s *profile.Set) *profile.Set {
	out := profile.NewSet()
	for label, p := range s.All() {
		out.Put(label, p)
	}
	return out
}
