// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ik5/audclass/audio"
	"github.com/ik5/audclass/descriptor"
	"github.com/ik5/audclass/loader"
	"github.com/ik5/audclass/profile"
	"github.com/ik5/audclass/store"
)

// diagnosticLags is the number of autocorrelation lags kept per sample.
const diagnosticLags = 500

func newTrainCmd(a *app) *cobra.Command {
	var diagDir string

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Build reference profiles from recorded clips",
		Long: `Read the recording metadata, compute descriptors for every clip and
replace the stored reference profiles with one profile per label.

Clips that are missing or cannot be decoded are skipped with a warning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, release, err := a.profiles()
			if err != nil {
				return err
			}
			defer release()

			set, err := train(cmd.Context(), a.metadata(), profiles, loader.New(), a.logger, diagDir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "trained %d profile(s): %s\n", set.Len(), strings.Join(set.Labels(), ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&diagDir, "diagnostics", "", "write per-clip autocorrelation and PSD JSON files to this directory")
	return cmd
}

// train aggregates every recording in meta and saves the result to
// profiles, replacing what was there. When diagDir is set a diagnostics
// file is written for each decoded clip.
func train(ctx context.Context, meta store.MetadataStore, profiles store.ProfileStore, l profile.Loader, logger *slog.Logger, diagDir string) (*profile.Set, error) {
	recs, err := meta.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	logger.Info("training", "recordings", len(recs))

	opts := []profile.Option{profile.WithLogger(logger)}
	if diagDir != "" {
		if err := os.MkdirAll(diagDir, 0o755); err != nil {
			return nil, fmt.Errorf("diagnostics dir: %w", err)
		}
		opts = append(opts, profile.WithSampleFunc(diagnosticsWriter(diagDir)))
	}

	set, err := profile.NewAggregator(l, opts...).Aggregate(ctx, store.Samples(recs))
	if err != nil {
		return nil, err
	}

	if err := profiles.Save(ctx, set); err != nil {
		return nil, fmt.Errorf("save profiles: %w", err)
	}
	logger.Info("profiles saved", "labels", set.Labels())
	return set, nil
}

// diagnosticsWriter stores descriptor.Diagnose output as <clip>.json. A clip
// whose base name was already used in this run gets a -N suffix.
func diagnosticsWriter(dir string) profile.SampleFunc {
	var (
		mu   sync.Mutex
		used = make(map[string]int)
	)

	return func(_ context.Context, s profile.Sample, buf audio.Buffer) error {
		diag, err := descriptor.Diagnose(buf, diagnosticLags)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(struct {
			Label string `json:"label"`
			Path  string `json:"path"`
			descriptor.Diagnostics
		}{s.Label, s.Path, diag}, "", "  ")
		if err != nil {
			return err
		}

		base := filepath.Base(s.Path)
		stem := strings.TrimSuffix(base, filepath.Ext(base))

		mu.Lock()
		used[stem]++
		n := used[stem]
		mu.Unlock()

		name := stem + ".json"
		if n > 1 {
			name = fmt.Sprintf("%s-%d.json", stem, n)
		}
		return os.WriteFile(filepath.Join(dir, name), data, 0o644)
	}
}
