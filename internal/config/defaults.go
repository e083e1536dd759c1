package config

const (
	defaultPollIntervalSeconds = 900
	defaultLanguage            = "en"
	defaultFetchTimeout        = 300
	defaultTranscribeTimeout   = 600
	defaultYtdlpBinary         = "yt-dlp"
	defaultWhisperModel        = "whisper-1"
	defaultSummaryBaseURL      = "https://api.openai.com/v1/chat/completions"
	defaultSummaryModel        = "gpt-4o-mini"
	defaultSummaryTimeout      = 120
	defaultSummaryMaxTokens    = 1024
	defaultSummaryTemperature  = 0.2
	defaultSMTPPort            = 587
	defaultSMTPTimeout         = 30
	defaultS3Key               = "state/last_video.json"
	defaultDataDir             = "~/.local/share/tubewatch"
	defaultLogLevel            = "info"
	defaultLogFormat           = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		YouTube: YouTube{
			PollInterval: defaultPollIntervalSeconds,
		},
		Transcript: Transcript{
			Language:          defaultLanguage,
			FetchTimeout:      defaultFetchTimeout,
			TranscribeTimeout: defaultTranscribeTimeout,
			YtdlpBinary:       defaultYtdlpBinary,
		},
		Whisper: Whisper{
			Model: defaultWhisperModel,
		},
		Summarizer: Summarizer{
			BaseURL:   defaultSummaryBaseURL,
			Model:     defaultSummaryModel,
			Timeout:   defaultSummaryTimeout,
			MaxTokens: defaultSummaryMaxTokens,
			Temp:      defaultSummaryTemperature,
		},
		Email: Email{
			Port:    defaultSMTPPort,
			Timeout: defaultSMTPTimeout,
		},
		State: State{
			S3Key: defaultS3Key,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
