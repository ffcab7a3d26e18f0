package engine

import "relic-server/internal/models"

// StepResult reports the outcome of a cursor movement. Movements that cannot
// be applied are no-ops with a distinct status, never errors.
type StepResult string

const (
	StepAdvanced  StepResult = "advanced"
	StepExhausted StepResult = "exhausted"
	StepRetreated StepResult = "retreated"
	StepAtStart   StepResult = "at-start"
)

// HistoryEntry records one dialog visit during a play session.
type HistoryEntry struct {
	SceneID  string `json:"sceneId"`
	DialogID string `json:"dialogId"`
	Index    int    `json:"index"`
}

// Cursor tracks the position within the active scene's dialog sequence.
// The visit history is append-only across the whole session: retreating
// moves the viewing position but never removes recorded visits.
type Cursor struct {
	scene   *models.Scene
	index   int
	history []HistoryEntry
}

func NewCursor() *Cursor {
	return &Cursor{}
}

// ResetTo makes the given scene active and rewinds the index to 0. Called on
// every scene transition, including re-entry into a previously visited scene;
// there is no memoized resume position.
func (c *Cursor) ResetTo(scene *models.Scene) {
	c.scene = scene
	c.index = 0
	c.recordVisit()
}

// Current returns the dialog at the active index. The second return is false
// when the scene has no dialogs (malformed content the cursor stays total on).
func (c *Cursor) Current() (*models.Dialog, bool) {
	if c.scene == nil || len(c.scene.Dialogs) == 0 {
		return nil, false
	}
	return &c.scene.Dialogs[c.index], true
}

// Index returns the current 0-based dialog index.
func (c *Cursor) Index() int {
	return c.index
}

// SceneID returns the active scene id, or "" before the first reset.
func (c *Cursor) SceneID() string {
	if c.scene == nil {
		return ""
	}
	return c.scene.ID
}

// AtEnd reports whether the cursor sits on the scene's final dialog, i.e.
// the sequence is exhausted and interaction points should be revealed.
func (c *Cursor) AtEnd() bool {
	if c.scene == nil {
		return false
	}
	return c.index >= len(c.scene.Dialogs)-1
}

// Advance moves to the next dialog. At the final dialog it returns
// StepExhausted without changing the index; repeating the call in that state
// is idempotent.
func (c *Cursor) Advance() StepResult {
	if c.scene == nil || c.index+1 >= len(c.scene.Dialogs) {
		return StepExhausted
	}
	c.index++
	c.recordVisit()
	return StepAdvanced
}

// Retreat moves to the previous dialog, or reports StepAtStart as a no-op.
func (c *Cursor) Retreat() StepResult {
	if c.index == 0 {
		return StepAtStart
	}
	c.index--
	return StepRetreated
}

// History returns a copy of the session's visit log.
func (c *Cursor) History() []HistoryEntry {
	out := make([]HistoryEntry, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Cursor) recordVisit() {
	if c.scene == nil || len(c.scene.Dialogs) == 0 {
		return
	}
	c.history = append(c.history, HistoryEntry{
		SceneID:  c.scene.ID,
		DialogID: c.scene.Dialogs[c.index].ID,
		Index:    c.index,
	})
}
