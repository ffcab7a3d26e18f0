package service

import (
	"context"
	"encoding/json"
	"fmt"

	"relic-server/internal/content"
	"relic-server/internal/models"
	"relic-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorySummary is the list-view projection of a story record, without the
// content blob.
type StorySummary struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	ArtifactID string    `json:"artifactId"`
}

// CreateStoryRequest carries a new story to be authored.
type CreateStoryRequest struct {
	Title      string
	ArtifactID string
	Content    json.RawMessage
}

// CatalogService serves the browsing surface (artifacts and the stories
// attached to them) and story authoring.
type CatalogService interface {
	ListStories(ctx context.Context, limit, offset int) ([]StorySummary, error)
	ListStoriesByArtifact(ctx context.Context, artifactID string) ([]StorySummary, error)
	CreateStory(ctx context.Context, req CreateStoryRequest) (StorySummary, error)
	GetArtifact(ctx context.Context, id string) (*models.Artifact, error)
	ListArtifacts(ctx context.Context, limit, offset int) ([]*models.Artifact, error)
}

type catalogServiceImpl struct {
	stories   repository.StoryRepository
	artifacts repository.ArtifactRepository
	validator *content.Validator
	logger    *zap.Logger
}

func NewCatalogService(stories repository.StoryRepository, artifacts repository.ArtifactRepository, validator *content.Validator, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{
		stories:   stories,
		artifacts: artifacts,
		validator: validator,
		logger:    logger.Named("CatalogService"),
	}
}

func (s *catalogServiceImpl) ListStories(ctx context.Context, limit, offset int) ([]StorySummary, error) {
	recs, err := s.stories.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return summarize(recs), nil
}

func (s *catalogServiceImpl) ListStoriesByArtifact(ctx context.Context, artifactID string) ([]StorySummary, error) {
	if _, err := s.artifacts.GetByID(ctx, artifactID); err != nil {
		return nil, err
	}
	recs, err := s.stories.ListByArtifact(ctx, artifactID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories for artifact %s: %w", artifactID, err)
	}
	return summarize(recs), nil
}

// CreateStory validates authored content and persists it. The validation is
// the same one StartSession applies, so a stored story is always playable.
func (s *catalogServiceImpl) CreateStory(ctx context.Context, req CreateStoryRequest) (StorySummary, error) {
	if req.Title == "" || req.ArtifactID == "" || len(req.Content) == 0 {
		return StorySummary{}, fmt.Errorf("%w: title, artifactId and content are required", models.ErrInvalidInput)
	}
	if _, err := s.artifacts.GetByID(ctx, req.ArtifactID); err != nil {
		return StorySummary{}, err
	}

	rec := &models.StoryRecord{
		ID:         uuid.New(),
		Title:      req.Title,
		ArtifactID: req.ArtifactID,
		Content:    req.Content,
	}
	story, err := content.FromRecord(rec)
	if err != nil {
		return StorySummary{}, err
	}
	if err := s.validator.Validate(story); err != nil {
		return StorySummary{}, err
	}

	if err := s.stories.Create(ctx, rec); err != nil {
		return StorySummary{}, fmt.Errorf("failed to create story: %w", err)
	}

	s.logger.Info("Story created",
		zap.String("storyID", rec.ID.String()),
		zap.String("artifactID", rec.ArtifactID),
	)
	return StorySummary{ID: rec.ID, Title: rec.Title, ArtifactID: rec.ArtifactID}, nil
}

func (s *catalogServiceImpl) GetArtifact(ctx context.Context, id string) (*models.Artifact, error) {
	return s.artifacts.GetByID(ctx, id)
}

func (s *catalogServiceImpl) ListArtifacts(ctx context.Context, limit, offset int) ([]*models.Artifact, error) {
	return s.artifacts.List(ctx, limit, offset)
}

func summarize(recs []*models.StoryRecord) []StorySummary {
	out := make([]StorySummary, len(recs))
	for i, rec := range recs {
		out[i] = StorySummary{
			ID:         rec.ID,
			Title:      rec.Title,
			ArtifactID: rec.ArtifactID,
		}
	}
	return out
}
