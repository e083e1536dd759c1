package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"tubewatch/internal/journal"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent watch cycles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}

			jrnl, err := journal.Open(filepath.Join(cfg.Paths.DataDir, "journal.db"))
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer jrnl.Close()

			records, err := jrnl.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(records)
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cycles recorded yet.")
				return nil
			}

			headers := []string{"Started", "New", "Video", "Chars", "Summary", "Notified", "Message"}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				message := rec.Message
				if rec.Error != "" {
					message = rec.Error
				}
				rows = append(rows, []string{
					rec.StartedAt.Local().Format(time.RFC3339),
					yesNo(rec.NewVideo),
					rec.VideoTitle,
					strconv.Itoa(rec.TranscriptChars),
					yesNo(rec.SummaryGenerated),
					yesNo(rec.NotificationSent),
					message,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 4))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of cycles to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
