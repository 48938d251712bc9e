package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/docuguard/docuguard/internal/domain"
)

type GalleryRepository struct {
	pool PgxPool
}

func NewGalleryRepository(pool PgxPool) *GalleryRepository {
	return &GalleryRepository{pool: pool}
}

func (r *GalleryRepository) Create(ctx context.Context, identity *domain.EnrolledIdentity) error {
	query := `
		INSERT INTO enrolled_identities (id, external_id, name, embedding, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		identity.ID,
		identity.ExternalID,
		identity.Name,
		toVector(identity.Embedding),
	).Scan(&identity.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("create identity: %w", err)
	}

	return nil
}

func (r *GalleryRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.EnrolledIdentity, error) {
	query := `
		SELECT id, external_id, name, embedding, created_at
		FROM enrolled_identities
		WHERE external_id = $1
	`

	var identity domain.EnrolledIdentity
	var embedding *pgvector.Vector

	err := r.pool.QueryRow(ctx, query, externalID).Scan(
		&identity.ID,
		&identity.ExternalID,
		&identity.Name,
		&embedding,
		&identity.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get identity by external_id: %w", err)
	}

	identity.Embedding = fromVector(embedding)
	return &identity, nil
}

// LoadEnrolled returns every identity that has a stored embedding.
// Identities enrolled without a face photo are simply excluded from
// matching; their absence here is not an error.
func (r *GalleryRepository) LoadEnrolled(ctx context.Context) ([]domain.EnrolledIdentity, error) {
	query := `
		SELECT id, external_id, name, embedding, created_at
		FROM enrolled_identities
		WHERE embedding IS NOT NULL
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load enrolled identities: %w", err)
	}
	defer rows.Close()

	var identities []domain.EnrolledIdentity
	for rows.Next() {
		var identity domain.EnrolledIdentity
		var embedding *pgvector.Vector

		if err := rows.Scan(
			&identity.ID,
			&identity.ExternalID,
			&identity.Name,
			&embedding,
			&identity.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan enrolled identity: %w", err)
		}

		identity.Embedding = fromVector(embedding)
		identities = append(identities, identity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrolled identities: %w", err)
	}

	return identities, nil
}

func (r *GalleryRepository) Delete(ctx context.Context, externalID string) error {
	query := `
		DELETE FROM enrolled_identities
		WHERE external_id = $1
	`

	result, err := r.pool.Exec(ctx, query, externalID)
	if err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrIdentityNotFound
	}

	return nil
}

func toVector(embedding []float64) *pgvector.Vector {
	if len(embedding) == 0 {
		return nil
	}
	floats := make([]float32, len(embedding))
	for i, v := range embedding {
		floats[i] = float32(v)
	}
	vec := pgvector.NewVector(floats)
	return &vec
}

func fromVector(vec *pgvector.Vector) []float64 {
	if vec == nil || vec.Slice() == nil {
		return nil
	}
	out := make([]float64, len(vec.Slice()))
	for i, v := range vec.Slice() {
		out[i] = float64(v)
	}
	return out
}
