package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"tubewatch/internal/logging"
)

// ProcessingState is the idempotency marker: the identity of the last video
// whose transcript was successfully acquired.
type ProcessingState struct {
	LastVideoID    string `json:"last_video_id"`
	LastVideoTitle string `json:"last_video_title"`
}

// Empty reports whether no video has been processed yet.
func (s ProcessingState) Empty() bool {
	return s.LastVideoID == "" && s.LastVideoTitle == ""
}

// RemoteBackend is the narrow contract a remote object store must satisfy.
// ok=false from LoadObject means the object does not exist yet.
type RemoteBackend interface {
	LoadObject(ctx context.Context) (data []byte, ok bool, err error)
	SaveObject(ctx context.Context, data []byte) error
	Name() string
}

// Store persists the processing state, preferring the remote backend when one
// is configured and falling back to the local file on any remote error.
// Remote unavailability never aborts a cycle.
type Store struct {
	path   string
	remote RemoteBackend
	logger *slog.Logger
}

// NewStore builds a state store. remote may be nil for local-only operation.
func NewStore(path string, remote RemoteBackend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{path: path, remote: remote, logger: logger}
}

// Load returns the persisted state. Missing or corrupt data yields an empty
// state rather than an error; corruption must never block the pipeline.
func (s *Store) Load(ctx context.Context) ProcessingState {
	if s.remote != nil {
		data, ok, err := s.remote.LoadObject(ctx)
		if err == nil {
			if !ok {
				return ProcessingState{}
			}
			return decode(data)
		}
		s.logger.Warn("remote state load failed; falling back to local file",
			logging.String("backend", s.remote.Name()),
			logging.Error(err),
		)
	}
	return s.loadLocal()
}

// Save overwrites the persisted state. When a remote backend is configured it
// is written first; on remote failure the local file is still written so the
// idempotency marker survives the cycle. Save fails only when every
// configured backend fails.
func (s *Store) Save(ctx context.Context, state ProcessingState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if s.remote != nil {
		if err := s.remote.SaveObject(ctx, data); err == nil {
			return nil
		} else {
			s.logger.Warn("remote state save failed; falling back to local file",
				logging.String("backend", s.remote.Name()),
				logging.Error(err),
			)
		}
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure state directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write state file %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) loadLocal() ProcessingState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("state file unreadable; starting from empty state",
				logging.String("path", s.path),
				logging.Error(err),
			)
		}
		return ProcessingState{}
	}
	return decode(data)
}

// decode tolerates invalid JSON and non-object payloads by returning an empty
// state.
func decode(data []byte) ProcessingState {
	var state ProcessingState
	if err := json.Unmarshal(data, &state); err != nil {
		return ProcessingState{}
	}
	return state
}
