package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"tubewatch/internal/logging"
	"tubewatch/internal/services"
)

// Source identifies how a transcript was obtained.
type Source string

const (
	SourceManualCaption Source = "manual_caption"
	SourceAutoCaption   Source = "auto_caption"
	SourceMediaFallback Source = "media_fallback"
)

// Result is an acquired transcript and its provenance.
type Result struct {
	Text   string
	Source Source
}

// CaptionProvider exposes caption tracks for a video. ok=false means the
// track kind does not exist; err means the lookup itself failed.
type CaptionProvider interface {
	ManualTranscript(ctx context.Context, videoID string) (text string, ok bool, err error)
	AutoTranscript(ctx context.Context, videoID string) (text string, ok bool, err error)
}

// MediaFetcher downloads a video's audio and returns the local file path.
type MediaFetcher interface {
	Fetch(ctx context.Context, videoID string) (path string, err error)
}

// SpeechTranscriber converts an audio file to text.
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Acquirer walks the transcript source chain: manual captions, then
// auto-generated captions, then audio download plus speech transcription.
// Caption failures demote to the next source; only the media fallback fails
// the acquisition outright.
type Acquirer struct {
	captions    CaptionProvider
	fetcher     MediaFetcher
	transcriber SpeechTranscriber
	logger      *slog.Logger

	fetchTimeout      time.Duration
	transcribeTimeout time.Duration
}

// NewAcquirer builds the acquisition chain. Zero timeouts disable the
// per-step deadline for that step.
func NewAcquirer(
	captions CaptionProvider,
	fetcher MediaFetcher,
	transcriber SpeechTranscriber,
	fetchTimeout, transcribeTimeout time.Duration,
	logger *slog.Logger,
) *Acquirer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Acquirer{
		captions:          captions,
		fetcher:           fetcher,
		transcriber:       transcriber,
		logger:            logger,
		fetchTimeout:      fetchTimeout,
		transcribeTimeout: transcribeTimeout,
	}
}

// Acquire returns the first transcript the source chain produces.
func (a *Acquirer) Acquire(ctx context.Context, videoID string) (Result, error) {
	log := logging.WithContext(ctx, a.logger).With(logging.String(logging.FieldVideoID, videoID))

	if text, ok := a.captionText(ctx, videoID, false, log); ok {
		log.Info("transcript acquired", logging.String("source", string(SourceManualCaption)))
		return Result{Text: text, Source: SourceManualCaption}, nil
	}
	if text, ok := a.captionText(ctx, videoID, true, log); ok {
		log.Info("transcript acquired", logging.String("source", string(SourceAutoCaption)))
		return Result{Text: text, Source: SourceAutoCaption}, nil
	}

	text, err := a.mediaFallback(ctx, videoID, log)
	if err != nil {
		return Result{}, err
	}
	log.Info("transcript acquired", logging.String("source", string(SourceMediaFallback)))
	return Result{Text: text, Source: SourceMediaFallback}, nil
}

// captionText tries one caption kind. Errors are logged and treated the same
// as the track not existing so the chain can continue.
func (a *Acquirer) captionText(ctx context.Context, videoID string, auto bool, log *slog.Logger) (string, bool) {
	kind := "manual"
	lookup := a.captions.ManualTranscript
	if auto {
		kind = "auto"
		lookup = a.captions.AutoTranscript
	}

	text, ok, err := lookup(ctx, videoID)
	if err != nil {
		log.Warn("caption lookup failed; trying next source",
			logging.String("kind", kind),
			logging.Error(err),
		)
		return "", false
	}
	if !ok || strings.TrimSpace(text) == "" {
		log.Debug("no caption track", logging.String("kind", kind))
		return "", false
	}
	return text, true
}

func (a *Acquirer) mediaFallback(ctx context.Context, videoID string, log *slog.Logger) (string, error) {
	fetchCtx := ctx
	if a.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, a.fetchTimeout)
		defer cancel()
	}
	path, err := a.fetcher.Fetch(fetchCtx, videoID)
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "transcript", "fetch-media",
			fmt.Sprintf("download audio for %s", videoID), err)
	}
	// The audio artifact is temporary regardless of how transcription goes.
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("could not remove audio artifact",
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}()

	transcribeCtx := ctx
	if a.transcribeTimeout > 0 {
		var cancel context.CancelFunc
		transcribeCtx, cancel = context.WithTimeout(ctx, a.transcribeTimeout)
		defer cancel()
	}
	text, err := a.transcriber.Transcribe(transcribeCtx, path)
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "transcript", "transcribe",
			fmt.Sprintf("transcribe audio for %s", videoID), err)
	}
	return text, nil
}
