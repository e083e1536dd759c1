package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tubewatch/internal/services"
)

func minimalEnv(base string) map[string]string {
	return map[string]string{
		"YOUTUBE_API_KEY":        "yt-key",
		"YOUTUBE_CHANNEL_HANDLE": "@example",
		"OPENAI_API_KEY":         "oa-key",
		"DATA_DIR":               base,
	}
}

func loadWithEnv(t *testing.T, env map[string]string) *Config {
	t.Helper()
	cfg := Default()
	cfg.applyEnv(func(key string) string { return env[key] })
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return &cfg
}

func TestEnvOverridesAndDerivedPaths(t *testing.T) {
	base := t.TempDir()
	env := minimalEnv(base)
	env["POLL_INTERVAL_SECONDS"] = "60"
	env["EMAIL_SUMMARIES_ENABLED"] = "true"
	env["SMTP_SENDER"] = "bot@example.com"
	env["SMTP_RECIPIENT"] = "me@example.com"
	env["SMTP_PASSWORD"] = "hunter2"

	cfg := loadWithEnv(t, env)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.YouTube.PollInterval != 60 {
		t.Fatalf("poll interval = %d, want 60", cfg.YouTube.PollInterval)
	}
	if !cfg.Email.Enabled {
		t.Fatal("email should be enabled")
	}
	if cfg.Paths.DownloadDir != filepath.Join(base, "downloads") {
		t.Fatalf("download dir = %q", cfg.Paths.DownloadDir)
	}
	if cfg.State.File != filepath.Join(base, "last_video.json") {
		t.Fatalf("state file = %q", cfg.State.File)
	}
	if cfg.Summarizer.APIKey != "oa-key" {
		t.Fatalf("summarizer key should fall back to the whisper key, got %q", cfg.Summarizer.APIKey)
	}
}

func TestValidateRequiresSourceCredentials(t *testing.T) {
	env := minimalEnv(t.TempDir())
	delete(env, "YOUTUBE_API_KEY")

	cfg := loadWithEnv(t, env)
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "youtube.api_key") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidateRequiresCompleteSMTPWhenEnabled(t *testing.T) {
	env := minimalEnv(t.TempDir())
	env["EMAIL_SUMMARIES_ENABLED"] = "true"
	env["SMTP_SENDER"] = "bot@example.com"

	cfg := loadWithEnv(t, env)
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation failure for partial SMTP settings")
	}
	if !strings.Contains(err.Error(), "email.recipient") || !strings.Contains(err.Error(), "email.password") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestLoadParsesTOMLFile(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := `
[youtube]
api_key = "file-key"
channel_handle = "@filechannel"

[whisper]
api_key = "file-whisper"

[paths]
data_dir = "` + base + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("resolved=%q exists=%v", resolved, exists)
	}
	if cfg.YouTube.ChannelHandle != "@filechannel" {
		t.Fatalf("channel handle = %q", cfg.YouTube.ChannelHandle)
	}
	// Defaults still apply for everything the file leaves out.
	if cfg.YouTube.PollInterval != defaultPollIntervalSeconds {
		t.Fatalf("poll interval = %d", cfg.YouTube.PollInterval)
	}
}

func TestHydrateSecretsOverlaysCredentials(t *testing.T) {
	cfg := loadWithEnv(t, minimalEnv(t.TempDir()))
	cfg.HydrateSecrets(map[string]string{
		"OPENAI_API_KEY": "secret-key",
		"SMTP_PASSWORD":  "secret-pass",
		"UNKNOWN_KEY":    "ignored",
	})
	if cfg.Whisper.APIKey != "secret-key" {
		t.Fatalf("whisper key = %q", cfg.Whisper.APIKey)
	}
	if cfg.Email.Password != "secret-pass" {
		t.Fatalf("smtp password = %q", cfg.Email.Password)
	}
}

func TestSampleConfigParses(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "sample.toml")
	if err := os.WriteFile(path, []byte(SampleConfig()), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
