// SPDX-License-Identifier: EPL-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/ik5/audclass/capture/portaudio"
	"github.com/ik5/audclass/detector"
	"github.com/ik5/audclass/report"
)

func newDetectCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Classify live microphone input",
		Long: `Load the reference profiles and classify one clip from the default
input device per interval until interrupted (Ctrl+C).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, release, err := a.profiles()
			if err != nil {
				return err
			}
			defer release()

			term := report.NewTerminal(cmd.OutOrStdout(), report.DefaultTheme)
			term.Verbose = verbose

			det := detector.New(
				profiles,
				portaudio.New(a.cfg.Audio.Capture(), a.logger),
				term,
				detector.WithInterval(a.cfg.Audio.Interval),
				detector.WithLogger(a.logger),
			)

			if err := det.Load(cmd.Context()); err != nil {
				return err
			}
			return det.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the distance to every profile")
	return cmd
}
