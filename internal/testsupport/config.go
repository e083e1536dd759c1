// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"tubewatch/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test
// and placeholder credentials for every required field.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.YouTube.APIKey = "test-youtube-key"
	cfg.YouTube.ChannelHandle = "@testchannel"
	cfg.Whisper.APIKey = "test-openai-key"
	cfg.Summarizer.APIKey = "test-openai-key"
	cfg.Paths.DataDir = base
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.State.File = filepath.Join(base, "last_video.json")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithEmail enables email delivery with placeholder SMTP settings.
func WithEmail() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Email.Enabled = true
		cfg.Email.Sender = "bot@example.com"
		cfg.Email.Recipient = "inbox@example.com"
		cfg.Email.Password = "test-password"
	}
}
