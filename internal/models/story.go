package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DialogKind classifies a dialog by its interactive payload. The kind is
// decided once when content is loaded; runtime code never re-inspects the
// payload fields to figure out what a dialog is.
type DialogKind string

const (
	DialogKindPlain  DialogKind = "plain"
	DialogKindChoice DialogKind = "choice"
	DialogKindQuiz   DialogKind = "quiz"
)

// PointKind tags an interaction point by what it represents on screen.
type PointKind string

const (
	PointKindItem      PointKind = "item"
	PointKindCharacter PointKind = "character"
	PointKindScene     PointKind = "scene"
)

// Position is an authored 2D coordinate against the story's baseline canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Baseline is the portrait canvas size the story's interaction points were
// authored against. Stories may be authored against different canvases, so
// this travels with the content instead of living as a constant in the
// coordinate transform.
type Baseline struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// StoryRecord is the persisted form of a story: metadata columns plus the
// full narrative content as JSONB.
type StoryRecord struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Title      string          `db:"title" json:"title"`
	ArtifactID string          `db:"artifact_id" json:"artifactId"`
	Content    json.RawMessage `db:"content" json:"content"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}

// Story is the complete narrative for one artifact: an ordered list of
// scenes, the first of which is the entry point. Immutable after load.
type Story struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	ArtifactID string    `json:"artifactId"`
	Baseline   Baseline  `json:"baseline"`
	Scenes     []Scene   `json:"scenes"`
}

// Scene is the unit of navigation: a background, an ordered dialog sequence
// and the interaction points revealed once the sequence is exhausted. An
// empty point list means the story ends here.
type Scene struct {
	ID         string             `json:"id"`
	Background string             `json:"background"`
	Dialogs    []Dialog           `json:"dialogs"`
	Points     []InteractionPoint `json:"points,omitempty"`
}

// Dialog is one line of narrative attributed to a speaker. It carries at
// most one of Choices or Quiz; Kind reflects which (set by the validator).
type Dialog struct {
	ID      string     `json:"id"`
	Speaker string     `json:"speaker"`
	Text    string     `json:"text"`
	Emotion string     `json:"emotion,omitempty"`
	Kind    DialogKind `json:"kind,omitempty"`
	Choices []Choice   `json:"choices,omitempty"`
	Quiz    *Quiz      `json:"quiz,omitempty"`
}

// Choice is one option of a single-selection choice dialog.
type Choice struct {
	Text    string `json:"text"`
	Outcome string `json:"outcome"`
	Correct bool   `json:"correct"`
}

// Quiz is a multi-select question attached to a dialog. More than one
// option may be correct.
type Quiz struct {
	Options     []QuizOption `json:"options"`
	Explanation string       `json:"explanation,omitempty"`
}

// QuizOption is a single selectable quiz answer.
type QuizOption struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// InteractionPoint is a tappable hotspot on a scene. Exactly one of
// NextScene or TriggerDialog should be set; if both are, the scene
// transition wins, and if neither is, the point is inert.
type InteractionPoint struct {
	ID            string    `json:"id"`
	Position      Position  `json:"position"`
	Kind          PointKind `json:"kind"`
	Hint          string    `json:"hint,omitempty"`
	NextScene     string    `json:"nextScene,omitempty"`
	TriggerDialog string    `json:"triggerDialog,omitempty"`
}

// SceneByID returns the scene with the given id, or nil.
func (s *Story) SceneByID(id string) *Scene {
	for i := range s.Scenes {
		if s.Scenes[i].ID == id {
			return &s.Scenes[i]
		}
	}
	return nil
}

// DialogByID returns the dialog with the given id within the scene, or nil.
func (sc *Scene) DialogByID(id string) *Dialog {
	for i := range sc.Dialogs {
		if sc.Dialogs[i].ID == id {
			return &sc.Dialogs[i]
		}
	}
	return nil
}

// PointByID returns the interaction point with the given id, or nil.
func (sc *Scene) PointByID(id string) *InteractionPoint {
	for i := range sc.Points {
		if sc.Points[i].ID == id {
			return &sc.Points[i]
		}
	}
	return nil
}

// Artifact is a cultural relic a story is attached to. Read-only catalog
// data served to the browsing client.
type Artifact struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Era         string    `db:"era" json:"era"`
	Region      string    `db:"region" json:"region"`
	Description string    `db:"description" json:"description"`
	ImageRef    string    `db:"image_ref" json:"imageRef"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
