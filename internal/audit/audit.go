// Package audit records verification attempts for after-the-fact review.
// Logging is best-effort everywhere: an audit failure never fails the
// verification that produced it.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event is one verification attempt's audit trail entry.
type Event struct {
	ID              uuid.UUID `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	Success         bool      `json:"success"`
	IdentityMatched bool      `json:"identity_matched"`
	FacesDetected   int       `json:"faces_detected"`
	Method          string    `json:"method"`
	Error           string    `json:"error,omitempty"`
}

// Logger defines the interface for audit logging
type Logger interface {
	Log(ctx context.Context, event Event) error
}

// SlogLogger implements Logger using slog
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a new audit logger using slog
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{
		logger: logger.With("component", "audit"),
	}
}

// Log records an audit event
func (l *SlogLogger) Log(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to marshal audit event",
			slog.String("error", err.Error()),
		)
		return err
	}

	l.logger.InfoContext(ctx, "audit_event",
		slog.String("event_id", event.ID.String()),
		slog.Bool("success", event.Success),
		slog.Bool("identity_matched", event.IdentityMatched),
		slog.Int("faces_detected", event.FacesDetected),
		slog.String("method", event.Method),
		slog.String("event_data", string(eventJSON)),
	)

	return nil
}

// NoOpLogger is a logger that does nothing (for testing or when audit is disabled)
type NoOpLogger struct{}

// Log does nothing and returns nil
func (l *NoOpLogger) Log(_ context.Context, _ Event) error {
	return nil
}
