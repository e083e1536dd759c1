package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// YouTube contains the source channel settings.
type YouTube struct {
	APIKey        string `toml:"api_key"`
	ChannelHandle string `toml:"channel_handle"`
	PollInterval  int    `toml:"poll_interval"`
}

// Transcript contains transcript acquisition settings.
type Transcript struct {
	Language          string `toml:"language"`
	FetchTimeout      int    `toml:"fetch_timeout"`
	TranscribeTimeout int    `toml:"transcribe_timeout"`
	YtdlpBinary       string `toml:"ytdlp_binary"`
}

// Whisper contains speech-to-text settings for the media fallback.
type Whisper struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// Summarizer contains text-generation settings.
type Summarizer struct {
	APIKey    string  `toml:"api_key"`
	BaseURL   string  `toml:"base_url"`
	Model     string  `toml:"model"`
	Timeout   int     `toml:"timeout"`
	MaxTokens int     `toml:"max_tokens"`
	Temp      float64 `toml:"temperature"`
}

// Email contains notification delivery settings.
type Email struct {
	Enabled     bool   `toml:"enabled"`
	Sender      string `toml:"sender"`
	Recipient   string `toml:"recipient"`
	Password    string `toml:"password"`
	Port        int    `toml:"port"`
	NotifyNoNew bool   `toml:"notify_no_new"`
	Timeout     int    `toml:"timeout"`
}

// State contains idempotency-marker persistence settings.
type State struct {
	File       string `toml:"file"`
	S3Bucket   string `toml:"s3_bucket"`
	S3Key      string `toml:"s3_key"`
	AWSRegion  string `toml:"aws_region"`
	SecretName string `toml:"secret_name"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir     string `toml:"data_dir"`
	DownloadDir string `toml:"download_dir"`
	LogDir      string `toml:"log_dir"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for tubewatch.
//
// Every field can be set in the TOML file and overridden by an environment
// variable (see env.go); the environment always wins so the process can run
// fully env-configured with no file at all.
type Config struct {
	YouTube    YouTube    `toml:"youtube"`
	Transcript Transcript `toml:"transcript"`
	Whisper    Whisper    `toml:"whisper"`
	Summarizer Summarizer `toml:"summarizer"`
	Email      Email      `toml:"email"`
	State      State      `toml:"state"`
	Paths      Paths      `toml:"paths"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/tubewatch/config.toml")
}

// Load locates and parses a configuration file, applies environment
// overrides, and normalizes paths. Validation is a separate step so callers
// can hydrate secrets first.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("tubewatch.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// HydrateSecrets overlays secret values (typically from a secrets manager)
// onto the corresponding credential fields. Keys use the same names as the
// environment variables.
func (c *Config) HydrateSecrets(values map[string]string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(values[key]); v != "" {
			*dst = v
		}
	}
	set(&c.YouTube.APIKey, "YOUTUBE_API_KEY")
	set(&c.YouTube.ChannelHandle, "YOUTUBE_CHANNEL_HANDLE")
	set(&c.Whisper.APIKey, "OPENAI_API_KEY")
	set(&c.Summarizer.APIKey, "SUMMARY_API_KEY")
	set(&c.Email.Password, "SMTP_PASSWORD")
	set(&c.Email.Sender, "SMTP_SENDER")
	set(&c.Email.Recipient, "SMTP_RECIPIENT")
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.DownloadDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// ExpandPath expands a leading ~ to the user's home directory and returns an
// absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", path, err)
	}
	return abs, nil
}
