package repository

import (
	"context"

	"relic-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool / pgx.Tx the repositories need, so the
// same code runs inside and outside transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// StoryRepository is the content store for authored stories.
type StoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.StoryRecord, error)
	List(ctx context.Context, limit, offset int) ([]*models.StoryRecord, error)
	ListByArtifact(ctx context.Context, artifactID string) ([]*models.StoryRecord, error)
	Create(ctx context.Context, rec *models.StoryRecord) error
}

// ArtifactRepository is the read-only relic catalog.
type ArtifactRepository interface {
	GetByID(ctx context.Context, id string) (*models.Artifact, error)
	List(ctx context.Context, limit, offset int) ([]*models.Artifact, error)
}
