package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"tubewatch/internal/config"
	"tubewatch/internal/journal"
	"tubewatch/internal/logging"
	"tubewatch/internal/notify"
	"tubewatch/internal/remote"
	"tubewatch/internal/services/captions"
	"tubewatch/internal/services/llm"
	"tubewatch/internal/services/whisper"
	"tubewatch/internal/services/youtube"
	"tubewatch/internal/services/ytdlp"
	"tubewatch/internal/state"
	"tubewatch/internal/summary"
	"tubewatch/internal/transcript"
	"tubewatch/internal/workflow"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the watcher (continuous by default, --once for a single cycle)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			manager, closeJournal, err := buildManager(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeJournal()

			if once {
				out, err := manager.RunCycle(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out.Message)
				return nil
			}
			return manager.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Run a single cycle and exit")
	return cmd
}

func buildManager(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*workflow.Manager, func(), error) {
	jrnl, err := journal.Open(filepath.Join(cfg.Paths.DataDir, "journal.db"))
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	closeJournal := func() { _ = jrnl.Close() }

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
	store := state.NewStore(cfg.State.File, backend, logger)

	poller, err := youtube.NewPoller(ctx, cfg.YouTube.APIKey, cfg.YouTube.ChannelHandle)
	if err != nil {
		closeJournal()
		return nil, nil, err
	}

	captionClient := captions.NewClient(cfg.Transcript.Language,
		time.Duration(cfg.Transcript.FetchTimeout)*time.Second)
	fetcher := ytdlp.NewFetcher(cfg.Transcript.YtdlpBinary, cfg.Paths.DownloadDir)
	transcriber := whisper.NewClient(cfg.Whisper.APIKey, cfg.Whisper.Model)
	acquirer := transcript.NewAcquirer(captionClient, fetcher, transcriber,
		time.Duration(cfg.Transcript.FetchTimeout)*time.Second,
		time.Duration(cfg.Transcript.TranscribeTimeout)*time.Second,
		logger)

	llmClient := llm.NewClient(llm.Config{
		APIKey:         cfg.Summarizer.APIKey,
		BaseURL:        cfg.Summarizer.BaseURL,
		Model:          cfg.Summarizer.Model,
		TimeoutSeconds: cfg.Summarizer.Timeout,
		MaxTokens:      cfg.Summarizer.MaxTokens,
		Temperature:    cfg.Summarizer.Temp,
	})
	summarizer := summary.NewSummarizer(llmClient)

	notifier := notify.NewService(cfg, logger)

	manager := workflow.NewManager(workflow.Options{
		Poller:       poller,
		Acquirer:     acquirer,
		Summarizer:   summarizer,
		Store:        store,
		Notifier:     notifier,
		Journal:      jrnl,
		Logger:       logger,
		PollInterval: time.Duration(cfg.YouTube.PollInterval) * time.Second,
		NotifyNoNew:  cfg.Email.NotifyNoNew,
		LockPath:     filepath.Join(cfg.Paths.DataDir, "tubewatch.lock"),
	})
	return manager, closeJournal, nil
}
