package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"tubewatch/internal/config"
)

func newConfigCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage tubewatch configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample config to the default location",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(config.SampleConfig()), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "show",
		Short:       "Show the effective configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}

			rows := [][]string{
				{"youtube.channel_handle", cfg.YouTube.ChannelHandle},
				{"youtube.api_key", maskSecret(cfg.YouTube.APIKey)},
				{"youtube.poll_interval", strconv.Itoa(cfg.YouTube.PollInterval)},
				{"transcript.language", cfg.Transcript.Language},
				{"transcript.ytdlp_binary", cfg.Transcript.YtdlpBinary},
				{"whisper.api_key", maskSecret(cfg.Whisper.APIKey)},
				{"whisper.model", cfg.Whisper.Model},
				{"summarizer.model", cfg.Summarizer.Model},
				{"summarizer.base_url", cfg.Summarizer.BaseURL},
				{"email.enabled", yesNo(cfg.Email.Enabled)},
				{"email.sender", cfg.Email.Sender},
				{"email.recipient", cfg.Email.Recipient},
				{"email.notify_no_new", yesNo(cfg.Email.NotifyNoNew)},
				{"state.file", cfg.State.File},
				{"state.s3_bucket", cfg.State.S3Bucket},
				{"paths.data_dir", cfg.Paths.DataDir},
				{"logging.level", cfg.Logging.Level},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "validate",
		Short:       "Load and validate the configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cmdCtx.ensureConfig(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid.")
			return nil
		},
	})

	return cmd
}

func maskSecret(value string) string {
	if value == "" {
		return "<unset>"
	}
	return "<set>"
}
