// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"relic-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// StoryRepository is a mock for repository.StoryRepository.
type StoryRepository struct {
	mock.Mock
}

func (m *StoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StoryRecord, error) {
	args := m.Called(ctx, id)
	if rec := args.Get(0); rec != nil {
		return rec.(*models.StoryRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoryRepository) List(ctx context.Context, limit, offset int) ([]*models.StoryRecord, error) {
	args := m.Called(ctx, limit, offset)
	if recs := args.Get(0); recs != nil {
		return recs.([]*models.StoryRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoryRepository) ListByArtifact(ctx context.Context, artifactID string) ([]*models.StoryRecord, error) {
	args := m.Called(ctx, artifactID)
	if recs := args.Get(0); recs != nil {
		return recs.([]*models.StoryRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StoryRepository) Create(ctx context.Context, rec *models.StoryRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// ArtifactRepository is a mock for repository.ArtifactRepository.
type ArtifactRepository struct {
	mock.Mock
}

func (m *ArtifactRepository) GetByID(ctx context.Context, id string) (*models.Artifact, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Artifact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ArtifactRepository) List(ctx context.Context, limit, offset int) ([]*models.Artifact, error) {
	args := m.Called(ctx, limit, offset)
	if a := args.Get(0); a != nil {
		return a.([]*models.Artifact), args.Error(1)
	}
	return nil, args.Error(1)
}
