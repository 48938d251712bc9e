package resource

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/docuguard/docuguard/internal/domain"
)

// Deletion retries cover transient lock contention from model backends that
// briefly hold staged files open.
const (
	deleteAttempts  = 3
	deleteRetryWait = 200 * time.Millisecond
)

// TempScope tracks temporary files staged for model I/O and guarantees
// their removal on every exit path. Cleanup failures are logged, never
// propagated: a leftover temp file must not turn a finished verification
// into an error.
type TempScope struct {
	logger *slog.Logger
	paths  []string
}

func NewTempScope(logger *slog.Logger) *TempScope {
	return &TempScope{logger: logger}
}

// Stage writes data to a fresh temporary file and registers it for cleanup.
// The pattern names the file for debuggability, e.g. "primary-Facenet-*.jpg".
func (s *TempScope) Stage(pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", domain.ErrPermission.WithError(err)
		}
		return "", err
	}
	s.paths = append(s.paths, f.Name())

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// Close removes every staged file, retrying briefly on transient errors.
func (s *TempScope) Close() {
	for _, path := range s.paths {
		s.remove(path)
	}
	s.paths = nil
}

func (s *TempScope) remove(path string) {
	var lastErr error
	for attempt := 0; attempt < deleteAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(deleteRetryWait)
		}
		lastErr = os.Remove(path)
		if lastErr == nil || errors.Is(lastErr, fs.ErrNotExist) {
			return
		}
	}
	if s.logger != nil {
		s.logger.Warn("could not delete temp file",
			slog.String("path", path),
			slog.Any("error", lastErr),
		)
	}
}
