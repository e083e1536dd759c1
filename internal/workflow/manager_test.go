package workflow

import (
	"context"
	"errors"
	"testing"

	"tubewatch/internal/journal"
	"tubewatch/internal/services"
	"tubewatch/internal/services/youtube"
	"tubewatch/internal/state"
	"tubewatch/internal/summary"
	"tubewatch/internal/transcript"
)

// recorder collects the order of pipeline side effects across all fakes.
type recorder struct {
	events []string
}

func (r *recorder) add(event string) {
	r.events = append(r.events, event)
}

type fakePoller struct {
	rec *recorder
	ref *youtube.VideoRef
	err error
}

func (f *fakePoller) FetchLatest(ctx context.Context) (*youtube.VideoRef, error) {
	f.rec.add("poll")
	return f.ref, f.err
}

type fakeAcquirer struct {
	rec    *recorder
	result transcript.Result
	err    error
}

func (f *fakeAcquirer) Acquire(ctx context.Context, videoID string) (transcript.Result, error) {
	f.rec.add("acquire")
	return f.result, f.err
}

type fakeSummarizer struct {
	rec    *recorder
	bundle summary.Bundle
	err    error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, title, text string) (summary.Bundle, error) {
	f.rec.add("summarize")
	return f.bundle, f.err
}

type fakeStore struct {
	rec     *recorder
	current state.ProcessingState
	saved   []state.ProcessingState
	saveErr error
}

func (f *fakeStore) Load(ctx context.Context) state.ProcessingState {
	f.rec.add("load")
	return f.current
}

func (f *fakeStore) Save(ctx context.Context, st state.ProcessingState) error {
	f.rec.add("save")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, st)
	return nil
}

type fakeNotifier struct {
	rec       *recorder
	resultErr error
	errorErr  error
	reasons   []string
}

func (f *fakeNotifier) SendResult(ctx context.Context, title string, bundle summary.Bundle) error {
	f.rec.add("notify-result")
	return f.resultErr
}

func (f *fakeNotifier) SendError(ctx context.Context, title, reason string) error {
	f.rec.add("notify-error")
	f.reasons = append(f.reasons, reason)
	return f.errorErr
}

func (f *fakeNotifier) SendNoNewVideo(ctx context.Context, lastTitle string) error {
	f.rec.add("notify-no-new")
	return nil
}

type fakeJournal struct {
	rec     *recorder
	records []journal.Record
}

func (f *fakeJournal) Append(ctx context.Context, r journal.Record) error {
	f.rec.add("journal")
	f.records = append(f.records, r)
	return nil
}

type fixture struct {
	rec        *recorder
	poller     *fakePoller
	acquirer   *fakeAcquirer
	summarizer *fakeSummarizer
	store      *fakeStore
	notifier   *fakeNotifier
	journal    *fakeJournal
	manager    *Manager
}

func newFixture(notifyNoNew bool) *fixture {
	rec := &recorder{}
	f := &fixture{
		rec:        rec,
		poller:     &fakePoller{rec: rec, ref: &youtube.VideoRef{ID: "new-id", Title: "New Video"}},
		acquirer:   &fakeAcquirer{rec: rec, result: transcript.Result{Text: "the transcript", Source: transcript.SourceManualCaption}},
		summarizer: &fakeSummarizer{rec: rec, bundle: summary.Bundle{ShortSummary: "s", ComprehensiveSummary: "c"}},
		store:      &fakeStore{rec: rec},
		notifier:   &fakeNotifier{rec: rec},
		journal:    &fakeJournal{rec: rec},
	}
	f.manager = NewManager(Options{
		Poller:      f.poller,
		Acquirer:    f.acquirer,
		Summarizer:  f.summarizer,
		Store:       f.store,
		Notifier:    f.notifier,
		Journal:     f.journal,
		NotifyNoNew: notifyNoNew,
	})
	return f
}

func assertEvents(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestRunCycleProcessesNewVideo(t *testing.T) {
	f := newFixture(false)
	out, err := f.manager.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}

	assertEvents(t, f.rec.events,
		[]string{"load", "poll", "acquire", "save", "summarize", "notify-result", "journal"})

	if !out.NewVideo || !out.SummaryGenerated || !out.NotificationSent {
		t.Fatalf("outcome = %+v", out)
	}
	if out.TranscriptChars != len("the transcript") {
		t.Fatalf("transcript chars = %d", out.TranscriptChars)
	}
	if len(f.store.saved) != 1 || f.store.saved[0].LastVideoID != "new-id" {
		t.Fatalf("saved state = %+v", f.store.saved)
	}
	if out.CycleID == "" {
		t.Fatal("cycle id missing")
	}
}

func TestRunCycleSkipsAlreadyProcessedVideo(t *testing.T) {
	f := newFixture(false)
	f.store.current = state.ProcessingState{LastVideoID: "new-id", LastVideoTitle: "New Video"}

	out, err := f.manager.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	assertEvents(t, f.rec.events, []string{"load", "poll", "journal"})
	if out.NewVideo {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Message != "no new videos since last check" {
		t.Fatalf("message = %q", out.Message)
	}
}

func TestRunCycleNotifiesNoNewWhenEnabled(t *testing.T) {
	f := newFixture(true)
	f.store.current = state.ProcessingState{LastVideoID: "new-id"}

	out, err := f.manager.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	assertEvents(t, f.rec.events, []string{"load", "poll", "notify-no-new", "journal"})
	if !out.NotificationSent {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestRunCycleEmptyChannel(t *testing.T) {
	f := newFixture(false)
	f.poller.ref = nil

	out, err := f.manager.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if out.Message != "no videos found on channel" {
		t.Fatalf("message = %q", out.Message)
	}
	assertEvents(t, f.rec.events, []string{"load", "poll", "journal"})
}

func TestRunCyclePollLookupFailureEndsQuietly(t *testing.T) {
	f := newFixture(false)
	f.poller.err = services.Wrap(services.ErrSourceUnavailable, "youtube", "fetch-latest", "http 500", nil)

	out, err := f.manager.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("lookup failure must end the cycle quietly, got %v", err)
	}
	if out.Message != "source unavailable; will retry next cycle" {
		t.Fatalf("message = %q", out.Message)
	}
	assertEvents(t, f.rec.events, []string{"load", "poll", "journal"})
	if len(f.journal.records) != 1 || f.journal.records[0].Error == "" {
		t.Fatalf("journal records = %+v", f.journal.records)
	}
}

func TestRunCycleUnclassifiedPollFailureIsFatal(t *testing.T) {
	f := newFixture(false)
	f.poller.err = errors.New("token refresh panic")

	_, err := f.manager.RunCycle(context.Background())
	if err == nil {
		t.Fatal("expected failure for an unclassified poller error")
	}
}

func TestRunCycleAcquisitionFailureSkipsStateSave(t *testing.T) {
	f := newFixture(false)
	f.acquirer.err = services.Wrap(services.ErrAcquisition, "transcript", "fetch-media", "network", nil)

	_, err := f.manager.RunCycle(context.Background())
	if !errors.Is(err, services.ErrAcquisition) {
		t.Fatalf("expected acquisition marker, got %v", err)
	}
	assertEvents(t, f.rec.events, []string{"load", "poll", "acquire", "journal"})
	if len(f.store.saved) != 0 {
		t.Fatalf("state must not be saved on acquisition failure, saved %+v", f.store.saved)
	}
}

func TestRunCycleStateSavedBeforeSummarization(t *testing.T) {
	f := newFixture(false)
	f.summarizer.err = services.Wrap(services.ErrSummarization, "summary", "generate", "quota", nil)

	out, err := f.manager.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("summarization failure must not fail the cycle: %v", err)
	}
	assertEvents(t, f.rec.events,
		[]string{"load", "poll", "acquire", "save", "summarize", "notify-error", "journal"})
	if len(f.store.saved) != 1 {
		t.Fatal("state must be saved even when summarization fails")
	}
	if out.SummaryGenerated {
		t.Fatalf("outcome = %+v", out)
	}
	if !out.NotificationSent {
		t.Fatal("error notification should count as sent")
	}
}

func TestRunCycleEmptyTranscriptSendsErrorWithoutSummarizing(t *testing.T) {
	f := newFixture(false)
	f.acquirer.result = transcript.Result{Text: "   ", Source: transcript.SourceAutoCaption}

	out, err := f.manager.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	assertEvents(t, f.rec.events,
		[]string{"load", "poll", "acquire", "save", "notify-error", "journal"})
	if out.Message != "transcript is empty; nothing to summarize" {
		t.Fatalf("message = %q", out.Message)
	}
	if len(f.notifier.reasons) != 1 || f.notifier.reasons[0] != out.Message {
		t.Fatalf("reasons = %v", f.notifier.reasons)
	}
}

func TestRunCycleStateSaveFailureContinues(t *testing.T) {
	f := newFixture(false)
	f.store.saveErr = errors.New("disk full")

	out, err := f.manager.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if !out.SummaryGenerated {
		t.Fatal("pipeline should continue past a state save failure")
	}
}

func TestRunCycleNotificationFailureIsNonFatal(t *testing.T) {
	f := newFixture(false)
	f.notifier.resultErr = errors.New("smtp down")

	out, err := f.manager.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if out.NotificationSent {
		t.Fatal("notification should be reported unsent")
	}
	if !out.SummaryGenerated {
		t.Fatalf("outcome = %+v", out)
	}
}
