package config

import (
	"strconv"
	"strings"
)

// applyEnv overlays environment variables onto the configuration. The lookup
// function is injected so tests do not mutate the process environment.
func (c *Config) applyEnv(lookup func(string) string) {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				*dst = parsed
			}
		}
	}
	setBool := func(dst *bool, key string) {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			*dst = strings.EqualFold(v, "true") || v == "1"
		}
	}

	setString(&c.YouTube.APIKey, "YOUTUBE_API_KEY")
	setString(&c.YouTube.ChannelHandle, "YOUTUBE_CHANNEL_HANDLE")
	setInt(&c.YouTube.PollInterval, "POLL_INTERVAL_SECONDS")

	setString(&c.Transcript.Language, "TRANSCRIPT_LANGUAGE")
	setInt(&c.Transcript.FetchTimeout, "FETCH_TIMEOUT_SECONDS")
	setInt(&c.Transcript.TranscribeTimeout, "TRANSCRIBE_TIMEOUT_SECONDS")
	setString(&c.Transcript.YtdlpBinary, "YTDLP_BINARY")

	setString(&c.Whisper.APIKey, "OPENAI_API_KEY")
	setString(&c.Whisper.Model, "WHISPER_MODEL")

	setString(&c.Summarizer.APIKey, "SUMMARY_API_KEY")
	setString(&c.Summarizer.BaseURL, "SUMMARY_BASE_URL")
	setString(&c.Summarizer.Model, "SUMMARY_MODEL")
	setInt(&c.Summarizer.Timeout, "SUMMARY_TIMEOUT_SECONDS")
	setInt(&c.Summarizer.MaxTokens, "SUMMARY_MAX_TOKENS")

	setBool(&c.Email.Enabled, "EMAIL_SUMMARIES_ENABLED")
	setString(&c.Email.Sender, "SMTP_SENDER")
	setString(&c.Email.Recipient, "SMTP_RECIPIENT")
	setString(&c.Email.Password, "SMTP_PASSWORD")
	setInt(&c.Email.Port, "SMTP_PORT")
	setBool(&c.Email.NotifyNoNew, "NOTIFY_NO_NEW_VIDEOS")
	setInt(&c.Email.Timeout, "SMTP_TIMEOUT_SECONDS")

	setString(&c.State.File, "STATE_FILE")
	setString(&c.State.S3Bucket, "S3_STATE_BUCKET")
	setString(&c.State.S3Key, "S3_STATE_KEY")
	setString(&c.State.AWSRegion, "AWS_REGION")
	setString(&c.State.SecretName, "SECRETS_MANAGER_SECRET_NAME")

	setString(&c.Paths.DataDir, "DATA_DIR")
	setString(&c.Paths.DownloadDir, "DOWNLOADS_DIR")
	setString(&c.Paths.LogDir, "LOG_DIR")

	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
}
