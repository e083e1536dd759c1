package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tubewatch/internal/config"
	"tubewatch/internal/logging"
	"tubewatch/internal/remote"
	"tubewatch/internal/state"
)

func newStateCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or reset the last-processed-video marker",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current marker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}
			store, err := openStateStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			st := store.Load(cmd.Context())
			if st.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No video has been processed yet.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Last video: %s (%s)\n", st.LastVideoTitle, st.LastVideoID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Reset the marker so the latest video is processed again",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}
			store, err := openStateStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if err := store.Save(cmd.Context(), state.ProcessingState{}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "State cleared.")
			return nil
		},
	})

	return cmd
}

func openStateStore(ctx context.Context, cfg *config.Config) (*state.Store, error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	var backend state.RemoteBackend
	if cfg.State.S3Bucket != "" {
		s3Backend, err := remote.NewS3Backend(ctx, cfg.State.S3Bucket, cfg.State.S3Key, cfg.State.AWSRegion)
		if err != nil {
			logger.Warn("s3 state backend unavailable; using local state file only",
				logging.Error(err))
		} else {
			backend = s3Backend
		}
	}
	return state.NewStore(cfg.State.File, backend, logger), nil
}
