package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"relic-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ StoryRepository = (*pgStoryRepository)(nil)

const (
	getStoryByIDQuery = `
SELECT id, title, artifact_id, content, created_at, updated_at
FROM stories
WHERE id = $1`

	listStoriesQuery = `
SELECT id, title, artifact_id, content, created_at, updated_at
FROM stories
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	listStoriesByArtifactQuery = `
SELECT id, title, artifact_id, content, created_at, updated_at
FROM stories
WHERE artifact_id = $1
ORDER BY created_at DESC`

	createStoryQuery = `
INSERT INTO stories (id, title, artifact_id, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
)

type pgStoryRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPgStoryRepository(db DBTX, logger *zap.Logger) StoryRepository {
	return &pgStoryRepository{
		db:     db,
		logger: logger.Named("PgStoryRepo"),
	}
}

// GetByID retrieves a story record by its unique ID.
func (r *pgStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StoryRecord, error) {
	log := r.logger.With(zap.String("storyID", id.String()))

	var rec models.StoryRecord
	err := pgxscan.Get(ctx, r.db, &rec, getStoryByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug("Story not found by ID")
			return nil, models.ErrStoryNotFound
		}
		log.Error("Failed to get story by ID", zap.Error(err))
		return nil, fmt.Errorf("failed to get story %s: %w", id, err)
	}
	return &rec, nil
}

// List returns stories ordered by creation time, newest first.
func (r *pgStoryRepository) List(ctx context.Context, limit, offset int) ([]*models.StoryRecord, error) {
	var recs []*models.StoryRecord
	err := pgxscan.Select(ctx, r.db, &recs, listStoriesQuery, limit, offset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*models.StoryRecord{}, nil
		}
		r.logger.Error("Failed to list stories", zap.Error(err))
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return recs, nil
}

// ListByArtifact returns all stories attached to one artifact.
func (r *pgStoryRepository) ListByArtifact(ctx context.Context, artifactID string) ([]*models.StoryRecord, error) {
	var recs []*models.StoryRecord
	err := pgxscan.Select(ctx, r.db, &recs, listStoriesByArtifactQuery, artifactID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*models.StoryRecord{}, nil
		}
		r.logger.Error("Failed to list stories by artifact", zap.String("artifactID", artifactID), zap.Error(err))
		return nil, fmt.Errorf("failed to list stories for artifact %s: %w", artifactID, err)
	}
	return recs, nil
}

// Create inserts a new story record.
func (r *pgStoryRepository) Create(ctx context.Context, rec *models.StoryRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.db.Exec(ctx, createStoryQuery,
		rec.ID,
		rec.Title,
		rec.ArtifactID,
		rec.Content,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create story", zap.String("storyID", rec.ID.String()), zap.Error(err))
		return fmt.Errorf("failed to create story: %w", err)
	}
	r.logger.Info("Story created", zap.String("storyID", rec.ID.String()), zap.String("title", rec.Title))
	return nil
}
