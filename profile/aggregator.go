// SPDX-License-Identifier: EPL-2.0

package profile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/descriptor"
	"gonum.org/v1/gonum/stat"
)

// Sample is one labelled training recording.
type Sample struct {
	Label string
	Path  string
}

// Loader reads a training recording into a mono buffer.
type Loader interface {
	Load(ctx context.Context, path string) (audio.Buffer, error)
}

// SampleFunc is called for every sample that loaded successfully, before its
// vector is computed. A returned error is logged and does not stop the run.
type SampleFunc func(ctx context.Context, s Sample, buf audio.Buffer) error

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for skipped samples.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithSampleFunc registers fn to observe each loaded sample.
func WithSampleFunc(fn SampleFunc) Option {
	return func(a *Aggregator) { a.onSample = fn }
}

// Aggregator builds one Profile per label from labelled recordings.
type Aggregator struct {
	loader   Loader
	logger   *slog.Logger
	onSample SampleFunc
}

func NewAggregator(l Loader, opts ...Option) *Aggregator {
	a := &Aggregator{loader: l, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate computes the profile set for samples. Labels appear in the
// order of their first sample; a label whose samples all failed is left
// out. Unreadable samples are logged and skipped, so the only errors
// returned come from ctx.
func (a *Aggregator) Aggregate(ctx context.Context, samples []Sample) (*Set, error) {
	var order []string
	byLabel := make(map[string][]descriptor.Vector)

	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vec, err := a.vector(ctx, s)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			a.logger.Warn("skipping training sample", "label", s.Label, "path", s.Path, "err", err)
			continue
		}

		if _, seen := byLabel[s.Label]; !seen {
			order = append(order, s.Label)
		}
		byLabel[s.Label] = append(byLabel[s.Label], vec)
	}

	set := NewSet()
	for _, label := range order {
		vecs := byLabel[label]
		set.Put(label, aggregate(vecs))
		a.logger.Debug("profile built", "label", label, "samples", len(vecs))
	}
	return set, nil
}

func (a *Aggregator) vector(ctx context.Context, s Sample) (descriptor.Vector, error) {
	buf, err := a.loader.Load(ctx, s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return descriptor.Vector{}, fmt.Errorf("%w: %w", ErrMissingSource, err)
		}
		return descriptor.Vector{}, err
	}

	if a.onSample != nil {
		if err := a.onSample(ctx, s, buf); err != nil {
			a.logger.Warn("sample hook failed", "label", s.Label, "path", s.Path, "err", err)
		}
	}

	return descriptor.Batch(buf)
}

// aggregate reduces the vectors of one label. vecs is never empty.
func aggregate(vecs []descriptor.Vector) Profile {
	n := len(vecs)
	cols := make([][]float64, descriptor.NumFields)
	for i := range cols {
		cols[i] = make([]float64, n)
	}
	for j, v := range vecs {
		for i, f := range v.Values() {
			cols[i][j] = f
		}
	}

	// The first three components are compared on a per-label scale.
	for i := range 3 {
		cols[i] = Normalize(cols[i])
	}

	return Profile{
		Autocorrelation: stat.Mean(cols[0], nil),
		Autocovariance:  stat.Mean(cols[1], nil),
		Spectral:        stat.Mean(cols[2], nil),
		Kurtosis:        stat.Mean(cols[3], nil),
		Skewness:        stat.Mean(cols[4], nil),
		SNR:             stat.Mean(cols[5], nil),
		DynamicRange:    stat.Mean(cols[6], nil),
	}
}
