// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/audclass/capture/portaudio"
	"github.com/ik5/audclass/recorder"
)

func newRecordCmd(a *app) *cobra.Command {
	var (
		label string
		count int
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Capture labelled training clips",
		Long: `Record --count clips from the default input device, save each one as
<label>_<unix>.wav in the recordings directory and append it to the
recording metadata.

Without --label every label from the configuration is recorded in turn.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}

			labels := a.cfg.Labels
			if label != "" {
				labels = []string{label}
			}
			if len(labels) == 0 {
				return errors.New("--label is required when the configuration lists no labels")
			}

			rec := recorder.New(
				portaudio.New(a.cfg.RecorderCapture(), a.logger),
				a.metadata(),
				a.cfg.Recorder.Dir,
				recorder.WithInterval(a.cfg.Recorder.Interval),
				recorder.WithLogger(a.logger),
			)

			out := cmd.OutOrStdout()
			for _, l := range labels {
				if cmd.Context().Err() != nil {
					break
				}
				fmt.Fprintf(out, "recording %d clip(s) for %q\n", count, l)

				recs, err := rec.Record(cmd.Context(), l, count)
				for _, r := range recs {
					fmt.Fprintf(out, "  %s\n", r.Path)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "label of the clips")
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of clips per label")
	return cmd
}
