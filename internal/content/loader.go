package content

import (
	"encoding/json"
	"fmt"

	"relic-server/internal/models"
)

// FromRecord decodes a persisted story record into the in-memory narrative
// model. Metadata columns win over anything duplicated inside the content
// JSON.
func FromRecord(rec *models.StoryRecord) (*models.Story, error) {
	var story models.Story
	if err := json.Unmarshal(rec.Content, &story); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidStoryContent, err)
	}
	story.ID = rec.ID
	story.Title = rec.Title
	story.ArtifactID = rec.ArtifactID
	return &story, nil
}
