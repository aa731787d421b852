// SPDX-License-Identifier: EPL-2.0

// Package store persists training metadata and reference profiles.
//
// Core packages only see the MetadataStore and ProfileStore interfaces;
// file paths and database handles stay inside the implementations here.
package store

import (
	"context"

	"github.com/ik5/audclass/profile"
)

// Recording describes one training clip on disk.
type Recording struct {
	Label     string `json:"label"`
	File      string `json:"file"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"` // unix seconds
}

// MetadataStore keeps the list of training recordings. Append never drops
// existing entries.
type MetadataStore interface {
	Load(ctx context.Context) ([]Recording, error)
	Append(ctx context.Context, recs ...Recording) error
}

// ProfileStore keeps the current profile set. Save replaces whatever was
// stored before. Load reports classifier.ErrNoReferenceData when nothing
// usable is stored.
type ProfileStore interface {
	Load(ctx context.Context) (*profile.Set, error)
	Save(ctx context.Context, set *profile.Set) error
}

// Samples converts recordings into aggregator input, preserving order.
func Samples(recs []Recording) []profile.Sample {
	out := make([]profile.Sample, len(recs))
	for i, r := range recs {
		out[i] = profile.Sample{Label: r.Label, Path: r.Path}
	}
	return out
}
