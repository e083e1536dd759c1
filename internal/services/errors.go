package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks missing or inconsistent settings; fatal at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrSourceUnavailable marks a failed or empty source lookup; the cycle ends quietly.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrAcquisition marks an exhausted transcript fallback chain; the cycle
	// aborts without persisting state so the video is retried next cycle.
	ErrAcquisition = errors.New("transcript acquisition failed")
	// ErrEmptyTranscript marks a transcript that is blank after trimming.
	ErrEmptyTranscript = errors.New("empty transcript")
	// ErrSummarization marks a failed generation or parse; state stays persisted.
	ErrSummarization = errors.New("summarization failed")
	// ErrNotification marks a failed delivery; callers log and continue.
	ErrNotification = errors.New("notification failed")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for classification via errors.Is. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrSummarization
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
