package content

import (
	"encoding/json"
	"testing"

	"relic-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecord(t *testing.T) {
	id := uuid.New()
	rec := &models.StoryRecord{
		ID:         id,
		Title:      "Catalog Title",
		ArtifactID: "ding-01",
		Content: json.RawMessage(`{
			"title": "Stale Embedded Title",
			"baseline": {"width": 375, "height": 667},
			"scenes": [
				{"id": "s1", "background": "bg.png", "dialogs": [
					{"id": "d1", "speaker": "guide", "text": "Hello."}
				]}
			]
		}`),
	}

	story, err := FromRecord(rec)
	require.NoError(t, err)

	// Metadata columns win over whatever the JSON carries.
	assert.Equal(t, id, story.ID)
	assert.Equal(t, "Catalog Title", story.Title)
	assert.Equal(t, "ding-01", story.ArtifactID)

	assert.Equal(t, models.Baseline{Width: 375, Height: 667}, story.Baseline)
	require.Len(t, story.Scenes, 1)
	assert.Equal(t, "bg.png", story.Scenes[0].Background)
	require.Len(t, story.Scenes[0].Dialogs, 1)
	assert.Equal(t, "guide", story.Scenes[0].Dialogs[0].Speaker)
}

func TestFromRecordMalformedJSON(t *testing.T) {
	rec := &models.StoryRecord{
		ID:      uuid.New(),
		Content: json.RawMessage(`{"scenes": [`),
	}

	_, err := FromRecord(rec)
	assert.ErrorIs(t, err, models.ErrInvalidStoryContent)
}
