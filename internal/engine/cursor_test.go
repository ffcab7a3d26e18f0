package engine

import (
	"testing"

	"relic-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeDialogScene() *models.Scene {
	return &models.Scene{
		ID: "hall",
		Dialogs: []models.Dialog{
			{ID: "d1", Speaker: "guide", Text: "Welcome."},
			{ID: "d2", Speaker: "guide", Text: "Look closely."},
			{ID: "d3", Speaker: "guide", Text: "Touch the bronze."},
		},
	}
}

func TestCursorAdvance(t *testing.T) {
	c := NewCursor()
	c.ResetTo(threeDialogScene())

	d, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "d1", d.ID)
	assert.False(t, c.AtEnd())

	assert.Equal(t, StepAdvanced, c.Advance())
	assert.Equal(t, StepAdvanced, c.Advance())

	d, ok = c.Current()
	require.True(t, ok)
	assert.Equal(t, "d3", d.ID)
	assert.True(t, c.AtEnd())

	t.Run("advancing past the end is an idempotent no-op", func(t *testing.T) {
		assert.Equal(t, StepExhausted, c.Advance())
		assert.Equal(t, StepExhausted, c.Advance())
		d, ok := c.Current()
		require.True(t, ok)
		assert.Equal(t, "d3", d.ID)
		assert.Equal(t, 2, c.Index())
	})
}

func TestCursorRetreat(t *testing.T) {
	c := NewCursor()
	c.ResetTo(threeDialogScene())

	t.Run("retreat at start is a no-op", func(t *testing.T) {
		assert.Equal(t, StepAtStart, c.Retreat())
		assert.Equal(t, 0, c.Index())
	})

	c.Advance()
	c.Advance()

	assert.Equal(t, StepRetreated, c.Retreat())
	d, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "d2", d.ID)
	assert.Equal(t, StepRetreated, c.Retreat())
	assert.Equal(t, StepAtStart, c.Retreat())
}

func TestCursorHistoryIsAppendOnly(t *testing.T) {
	c := NewCursor()
	c.ResetTo(threeDialogScene())
	c.Advance()
	c.Advance()
	c.Retreat()
	c.Retreat()
	c.Advance()

	ids := make([]string, 0)
	for _, e := range c.History() {
		ids = append(ids, e.DialogID)
	}
	// Retreats move the viewing position but never erase recorded visits.
	assert.Equal(t, []string{"d1", "d2", "d3", "d2"}, ids)
}

func TestCursorSingleDialogScene(t *testing.T) {
	c := NewCursor()
	c.ResetTo(&models.Scene{
		ID:      "solo",
		Dialogs: []models.Dialog{{ID: "only", Text: "The end."}},
	})

	assert.True(t, c.AtEnd())
	assert.Equal(t, StepExhausted, c.Advance())
	assert.Equal(t, StepAtStart, c.Retreat())
}

func TestCursorResetRewindsIndex(t *testing.T) {
	c := NewCursor()
	first := threeDialogScene()
	c.ResetTo(first)
	c.Advance()
	c.Advance()

	second := &models.Scene{
		ID:      "vault",
		Dialogs: []models.Dialog{{ID: "v1"}, {ID: "v2"}},
	}
	c.ResetTo(second)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, "vault", c.SceneID())

	// Re-entering a visited scene restarts from the top; there is no
	// memoized resume position.
	c.ResetTo(first)
	assert.Equal(t, 0, c.Index())
	d, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "d1", d.ID)
}

func TestCursorEmptyScene(t *testing.T) {
	c := NewCursor()
	c.ResetTo(&models.Scene{ID: "empty"})

	_, ok := c.Current()
	assert.False(t, ok)
	assert.Equal(t, StepExhausted, c.Advance())
	assert.Empty(t, c.History())
}
