package config

import (
	"errors"
	"fmt"
	"strings"

	"tubewatch/internal/services"
)

// Validate ensures the configuration is usable. All failures carry the
// configuration marker so the process exits before running a cycle.
func (c *Config) Validate() error {
	if err := c.validateYouTube(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
	}
	if err := c.validateTranscript(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
	}
	if err := c.validateSummarizer(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
	}
	if err := c.validateEmail(); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if strings.TrimSpace(c.YouTube.APIKey) == "" {
		return errors.New("youtube.api_key is required (set YOUTUBE_API_KEY)")
	}
	if c.YouTube.ChannelHandle == "" {
		return errors.New("youtube.channel_handle is required (set YOUTUBE_CHANNEL_HANDLE)")
	}
	if c.YouTube.PollInterval <= 0 {
		return errors.New("youtube.poll_interval must be positive")
	}
	return nil
}

func (c *Config) validateTranscript() error {
	if err := ensurePositiveMap(map[string]int{
		"transcript.fetch_timeout":      c.Transcript.FetchTimeout,
		"transcript.transcribe_timeout": c.Transcript.TranscribeTimeout,
	}); err != nil {
		return err
	}
	if strings.TrimSpace(c.Whisper.APIKey) == "" {
		return errors.New("whisper.api_key is required for the media fallback (set OPENAI_API_KEY)")
	}
	return nil
}

func (c *Config) validateSummarizer() error {
	// Generation credentials default to the whisper key when unset; the two
	// backends frequently share one account.
	if strings.TrimSpace(c.Summarizer.APIKey) == "" {
		if strings.TrimSpace(c.Whisper.APIKey) == "" {
			return errors.New("summarizer.api_key is required (set SUMMARY_API_KEY or OPENAI_API_KEY)")
		}
		c.Summarizer.APIKey = c.Whisper.APIKey
	}
	if strings.TrimSpace(c.Summarizer.Model) == "" {
		return errors.New("summarizer.model must be set")
	}
	if err := ensurePositiveMap(map[string]int{
		"summarizer.timeout":    c.Summarizer.Timeout,
		"summarizer.max_tokens": c.Summarizer.MaxTokens,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEmail() error {
	if !c.Email.Enabled {
		return nil
	}
	missing := make([]string, 0, 3)
	if c.Email.Sender == "" {
		missing = append(missing, "email.sender")
	}
	if c.Email.Recipient == "" {
		missing = append(missing, "email.recipient")
	}
	if strings.TrimSpace(c.Email.Password) == "" {
		missing = append(missing, "email.password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("email notifications enabled, but missing: %s", strings.Join(missing, ", "))
	}
	if c.Email.Sender != "" && !strings.Contains(c.Email.Sender, "@") {
		return errors.New("email.sender must be a full address; the SMTP host is derived from its domain")
	}
	if c.Email.Port <= 0 {
		return errors.New("email.port must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
