package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/docuguard/docuguard/internal/domain"
)

// PgxPool is the subset of pgxpool.Pool the repositories use; pgxmock
// satisfies it in tests.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// GalleryRepositoryInterface defines access to the enrolled-identity gallery.
// The gallery is reloaded fresh for every verification attempt; the pipeline
// never caches it.
type GalleryRepositoryInterface interface {
	Create(ctx context.Context, identity *domain.EnrolledIdentity) error
	GetByExternalID(ctx context.Context, externalID string) (*domain.EnrolledIdentity, error)
	LoadEnrolled(ctx context.Context) ([]domain.EnrolledIdentity, error)
	Delete(ctx context.Context, externalID string) error
}

// VerificationAuditRepositoryInterface persists per-attempt audit records.
type VerificationAuditRepositoryInterface interface {
	Create(ctx context.Context, rec *domain.VerificationRecord) error
}
