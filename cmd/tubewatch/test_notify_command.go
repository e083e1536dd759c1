package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubewatch/internal/logging"
	"tubewatch/internal/notify"
	"tubewatch/internal/summary"
)

func newTestNotifyCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a canned summary email to verify delivery settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}
			if !cfg.Email.Enabled {
				return fmt.Errorf("email notifications are disabled; enable them before testing")
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			bundle := summary.Bundle{
				ShortSummary: "This is a tubewatch delivery test.",
				ComprehensiveSummary: "If you are reading this, SMTP settings are working.\n\n" +
					"No video was processed; this message was generated by the test-notify command.",
			}
			if err := notify.NewService(cfg, logger).SendResult(cmd.Context(), "tubewatch delivery test", bundle); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Test email sent to %s\n", cfg.Email.Recipient)
			return nil
		},
	}
}
