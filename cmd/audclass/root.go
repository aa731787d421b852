// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ik5/audclass/config"
	"github.com/ik5/audclass/store"
)

// app carries the state shared by every subcommand once the root command
// has loaded the configuration.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "audclass",
		Short: "Tonal vs. noise audio classifier",
		Long: `audclass learns reference profiles for labelled audio clips and
classifies live microphone input against them.

Typical workflow:
  audclass record --label song --count 5
  audclass record --label white-noise --count 5
  audclass train
  audclass detect`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "audclass.yaml", "configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newRecordCmd(a),
		newTrainCmd(a),
		newDetectCmd(a),
		newProfilesCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		lvl := config.LogLevel(a.logLevel)
		if !lvl.IsValid() {
			return fmt.Errorf("invalid --log-level %q", a.logLevel)
		}
		cfg.LogLevel = lvl
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.LogLevel.Level(),
	}))
	slog.SetDefault(a.logger)
	return nil
}

// metadata opens the training metadata store.
func (a *app) metadata() store.MetadataStore {
	return store.NewJSONMetadata(a.cfg.Store.MetadataPath, a.logger)
}

// profiles opens the configured profile store. The returned func releases
// it and must always be called.
func (a *app) profiles() (store.ProfileStore, func(), error) {
	switch a.cfg.Store.Backend {
	case config.BackendBadger:
		db, err := store.OpenBadger(store.BadgerOptions{
			Dir:    a.cfg.Store.BadgerDir,
			Logger: a.logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return db, func() {
			if err := db.Close(); err != nil {
				a.logger.Error("closing profile store", "err", err)
			}
		}, nil
	case config.BackendJSON:
		return store.NewJSONProfiles(a.cfg.Store.ProfilesPath), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", a.cfg.Store.Backend)
}

