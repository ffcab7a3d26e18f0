package repository

import (
	"context"
	"errors"
	"fmt"

	"relic-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ ArtifactRepository = (*pgArtifactRepository)(nil)

const (
	getArtifactByIDQuery = `
SELECT id, title, era, region, description, image_ref, created_at
FROM artifacts
WHERE id = $1`

	listArtifactsQuery = `
SELECT id, title, era, region, description, image_ref, created_at
FROM artifacts
ORDER BY title
LIMIT $1 OFFSET $2`
)

type pgArtifactRepository struct {
	db     DBTX
	logger *zap.Logger
}

func NewPgArtifactRepository(db DBTX, logger *zap.Logger) ArtifactRepository {
	return &pgArtifactRepository{
		db:     db,
		logger: logger.Named("PgArtifactRepo"),
	}
}

func (r *pgArtifactRepository) GetByID(ctx context.Context, id string) (*models.Artifact, error) {
	var a models.Artifact
	err := pgxscan.Get(ctx, r.db, &a, getArtifactByIDQuery, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Artifact not found", zap.String("artifactID", id))
			return nil, models.ErrArtifactNotFound
		}
		r.logger.Error("Failed to get artifact", zap.String("artifactID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get artifact %s: %w", id, err)
	}
	return &a, nil
}

func (r *pgArtifactRepository) List(ctx context.Context, limit, offset int) ([]*models.Artifact, error) {
	var artifacts []*models.Artifact
	err := pgxscan.Select(ctx, r.db, &artifacts, listArtifactsQuery, limit, offset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*models.Artifact{}, nil
		}
		r.logger.Error("Failed to list artifacts", zap.Error(err))
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}
