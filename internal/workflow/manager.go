package workflow

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"tubewatch/internal/journal"
	"tubewatch/internal/logging"
	"tubewatch/internal/notify"
	"tubewatch/internal/services"
	"tubewatch/internal/services/youtube"
	"tubewatch/internal/state"
	"tubewatch/internal/summary"
	"tubewatch/internal/transcript"
)

// Poller fetches the newest upload on the watched channel. A nil ref with a
// nil error means the channel has no videos.
type Poller interface {
	FetchLatest(ctx context.Context) (*youtube.VideoRef, error)
}

// Acquirer produces a transcript for a video.
type Acquirer interface {
	Acquire(ctx context.Context, videoID string) (transcript.Result, error)
}

// Summarizer turns a transcript into a summary bundle.
type Summarizer interface {
	Summarize(ctx context.Context, videoTitle, transcriptText string) (summary.Bundle, error)
}

// StateStore persists the last-processed marker.
type StateStore interface {
	Load(ctx context.Context) state.ProcessingState
	Save(ctx context.Context, st state.ProcessingState) error
}

// Journal records completed cycles. Append failures never fail a cycle.
type Journal interface {
	Append(ctx context.Context, rec journal.Record) error
}

// Outcome summarizes what one cycle did.
type Outcome struct {
	CycleID          string
	NewVideo         bool
	VideoID          string
	VideoTitle       string
	TranscriptChars  int
	SummaryGenerated bool
	NotificationSent bool
	Message          string
}

// Manager runs watch cycles.
type Manager struct {
	poller     Poller
	acquirer   Acquirer
	summarizer Summarizer
	store      StateStore
	notifier   notify.Service
	journal    Journal
	logger     *slog.Logger

	pollInterval time.Duration
	notifyNoNew  bool
	lockPath     string
}

// Options configures a manager.
type Options struct {
	Poller       Poller
	Acquirer     Acquirer
	Summarizer   Summarizer
	Store        StateStore
	Notifier     notify.Service
	Journal      Journal
	Logger       *slog.Logger
	PollInterval time.Duration
	NotifyNoNew  bool
	LockPath     string
}

// NewManager wires the pipeline together.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		poller:       opts.Poller,
		acquirer:     opts.Acquirer,
		summarizer:   opts.Summarizer,
		store:        opts.Store,
		notifier:     opts.Notifier,
		journal:      opts.Journal,
		logger:       logger,
		pollInterval: opts.PollInterval,
		notifyNoNew:  opts.NotifyNoNew,
		lockPath:     opts.LockPath,
	}
}

// Run polls continuously until the context is canceled. A file lock rejects
// concurrent instances so two processes never race on the state marker.
func (m *Manager) Run(ctx context.Context) error {
	lock := flock.New(m.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "workflow", "lock",
			"acquire instance lock "+m.lockPath, err)
	}
	if !locked {
		return services.Wrap(services.ErrConfiguration, "workflow", "lock",
			"another tubewatch instance is already running", nil)
	}
	defer func() { _ = lock.Unlock() }()

	m.logger.Info("watch loop started",
		logging.String("interval", m.pollInterval.String()),
	)
	for {
		if _, err := m.RunCycle(ctx); err != nil {
			m.logger.Error("cycle failed", logging.Error(err))
		}

		timer := time.NewTimer(m.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.logger.Info("watch loop stopped")
			return nil
		case <-timer.C:
		}
	}
}

// RunCycle executes one poll-acquire-summarize-notify pass.
func (m *Manager) RunCycle(ctx context.Context) (Outcome, error) {
	started := time.Now()
	out := Outcome{CycleID: uuid.NewString()}
	ctx = services.WithCycleID(ctx, out.CycleID)
	log := m.logger.With(logging.String(logging.FieldCycleID, out.CycleID))

	var cycleErr error
	defer func() {
		m.record(ctx, out, started, cycleErr, log)
	}()

	current := m.store.Load(ctx)

	latest, err := m.poller.FetchLatest(ctx)
	if err != nil {
		cycleErr = err
		if errors.Is(err, services.ErrSourceUnavailable) {
			// Lookup failure ends the cycle quietly; the next cycle retries.
			out.Message = "source unavailable; will retry next cycle"
			log.Warn(out.Message, logging.Error(err))
			return out, nil
		}
		return out, err
	}
	if latest == nil {
		out.Message = "no videos found on channel"
		log.Info(out.Message)
		return out, nil
	}

	if latest.ID == current.LastVideoID {
		out.Message = "no new videos since last check"
		log.Info(out.Message, logging.String("last_title", current.LastVideoTitle))
		if m.notifyNoNew {
			if err := m.notifier.SendNoNewVideo(ctx, current.LastVideoTitle); err != nil {
				log.Warn("no-new-video notification failed", logging.Error(err))
			} else {
				out.NotificationSent = true
			}
		}
		return out, nil
	}

	out.NewVideo = true
	out.VideoID = latest.ID
	out.VideoTitle = latest.Title
	ctx = services.WithVideoID(ctx, latest.ID)
	log = log.With(logging.String(logging.FieldVideoID, latest.ID))
	log.Info("new video detected", logging.String("title", latest.Title))

	acquired, err := m.acquirer.Acquire(ctx, latest.ID)
	if err != nil {
		cycleErr = err
		return out, err
	}
	out.TranscriptChars = len(acquired.Text)

	// Persist the marker as soon as the transcript exists. Downstream
	// failures must not reprocess this video on the next cycle.
	if err := m.store.Save(ctx, state.ProcessingState{
		LastVideoID:    latest.ID,
		LastVideoTitle: latest.Title,
	}); err != nil {
		log.Error("state save failed; this video may be reprocessed", logging.Error(err))
	}

	if strings.TrimSpace(acquired.Text) == "" {
		out.Message = "transcript is empty; nothing to summarize"
		log.Warn(out.Message, logging.String("source", string(acquired.Source)))
		m.sendError(ctx, latest.Title, out.Message, &out, log)
		return out, nil
	}

	bundle, err := m.summarizer.Summarize(ctx, latest.Title, acquired.Text)
	if err != nil {
		out.Message = "summarization failed"
		log.Error(out.Message, logging.Error(err))
		m.sendError(ctx, latest.Title, err.Error(), &out, log)
		return out, nil
	}
	out.SummaryGenerated = true

	if err := m.notifier.SendResult(ctx, latest.Title, bundle); err != nil {
		log.Warn("result notification failed", logging.Error(err))
	} else {
		out.NotificationSent = true
	}

	out.Message = "processed video: " + latest.Title
	log.Info("cycle complete",
		logging.String("source", string(acquired.Source)),
		logging.Int("transcript_chars", out.TranscriptChars),
	)
	return out, nil
}

func (m *Manager) sendError(ctx context.Context, title, reason string, out *Outcome, log *slog.Logger) {
	if err := m.notifier.SendError(ctx, title, reason); err != nil {
		log.Warn("error notification failed", logging.Error(err))
		return
	}
	out.NotificationSent = true
}

func (m *Manager) record(ctx context.Context, out Outcome, started time.Time, cycleErr error, log *slog.Logger) {
	if m.journal == nil {
		return
	}
	rec := journal.Record{
		CycleID:          out.CycleID,
		StartedAt:        started,
		FinishedAt:       time.Now(),
		NewVideo:         out.NewVideo,
		VideoID:          out.VideoID,
		VideoTitle:       out.VideoTitle,
		TranscriptChars:  out.TranscriptChars,
		SummaryGenerated: out.SummaryGenerated,
		NotificationSent: out.NotificationSent,
		Message:          out.Message,
	}
	if cycleErr != nil {
		rec.Error = cycleErr.Error()
	}
	if err := m.journal.Append(ctx, rec); err != nil {
		log.Warn("journal append failed", logging.Error(err))
	}
}
