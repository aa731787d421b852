// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ik5/audclass/descriptor"
	"github.com/ik5/audclass/profile"
)

func newProfilesCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Print the stored reference profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profiles, release, err := a.profiles()
			if err != nil {
				return err
			}
			defer release()

			set, err := profiles.Load(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "    ")
				return enc.Encode(set)
			}
			return printProfiles(cmd.OutOrStdout(), set)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the profiles as JSON")
	return cmd
}

// printProfiles writes one row per label and one column per descriptor.
func printProfiles(w io.Writer, set *profile.Set) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprint(tw, "label")
	for _, f := range descriptor.Fields {
		fmt.Fprintf(tw, "\t%s", f)
	}
	fmt.Fprintln(tw)

	for label, p := range set.All() {
		fmt.Fprint(tw, label)
		for _, v := range p.Values() {
			fmt.Fprintf(tw, "\t%.6f", v)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
