package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/docuguard/docuguard/internal/domain"
)

type VerificationAuditRepository struct {
	pool PgxPool
}

func NewVerificationAuditRepository(pool PgxPool) *VerificationAuditRepository {
	return &VerificationAuditRepository{pool: pool}
}

func (r *VerificationAuditRepository) Create(ctx context.Context, rec *domain.VerificationRecord) error {
	query := `
		INSERT INTO verification_records (id, timestamp, success, identity_matched, faces_detected, method)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.Timestamp,
		rec.Success,
		rec.IdentityMatched,
		rec.FacesDetected,
		rec.Method,
	)

	if err != nil {
		return fmt.Errorf("create verification record: %w", err)
	}

	return nil
}
