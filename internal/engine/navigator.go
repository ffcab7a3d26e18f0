package engine

import (
	"relic-server/internal/models"

	"go.uber.org/zap"
)

// ActivationOutcome reports what activating an interaction point did.
type ActivationOutcome string

const (
	ActivationSceneChanged ActivationOutcome = "scene-changed"
	ActivationDialogOpened ActivationOutcome = "dialog-opened"
	ActivationInert        ActivationOutcome = "inert"
)

// Navigator owns the active scene and the transitions between scenes. A
// scene with no outgoing transitions is terminal: the navigator keeps
// presenting its interaction points and never faults.
type Navigator struct {
	story  *models.Story
	scene  *models.Scene
	cursor *Cursor
	sub    *SubDialog
	logger *zap.Logger
}

// NewNavigator starts at the story's first scene with the dialog cursor at 0.
func NewNavigator(story *models.Story, logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &Navigator{
		story:  story,
		cursor: NewCursor(),
		logger: logger.Named("Navigator"),
	}
	if len(story.Scenes) > 0 {
		n.scene = &story.Scenes[0]
		n.cursor.ResetTo(n.scene)
	}
	return n
}

// Scene returns the active scene.
func (n *Navigator) Scene() *models.Scene {
	return n.scene
}

// Cursor returns the dialog cursor for the active scene.
func (n *Navigator) Cursor() *Cursor {
	return n.cursor
}

// SubDialog returns the active sub-dialog session, or nil.
func (n *Navigator) SubDialog() *SubDialog {
	return n.sub
}

// Activate applies the interaction point with the given id. A next-scene
// reference wins over a triggered dialog when an authored point carries
// both. Content-integrity failures (unknown point, dangling scene or dialog
// reference) are recoverable: the navigator stays on its current state.
func (n *Navigator) Activate(pointID string) (ActivationOutcome, error) {
	if n.scene == nil {
		return "", models.ErrSceneNotFound
	}
	p := n.scene.PointByID(pointID)
	if p == nil {
		return "", models.ErrPointNotFound
	}

	switch {
	case p.NextScene != "":
		target := n.story.SceneByID(p.NextScene)
		if target == nil {
			n.logger.Warn("Interaction point references unknown scene",
				zap.String("pointID", p.ID),
				zap.String("nextScene", p.NextScene),
			)
			return "", models.ErrSceneNotFound
		}
		n.scene = target
		n.cursor.ResetTo(target)
		n.sub = nil
		return ActivationSceneChanged, nil

	case p.TriggerDialog != "":
		sub, err := ResolveSubDialog(n.scene, p.TriggerDialog)
		if err != nil {
			n.logger.Warn("Failed to resolve triggered dialog",
				zap.String("pointID", p.ID),
				zap.String("triggerDialog", p.TriggerDialog),
				zap.Error(err),
			)
			return "", err
		}
		// Opening a new sub-dialog discards any unsubmitted prior session.
		n.sub = sub
		return ActivationDialogOpened, nil

	default:
		// Inert point: dead content, a content-authoring problem rather
		// than a runtime error.
		n.logger.Warn("Activated inert interaction point",
			zap.String("sceneID", n.scene.ID),
			zap.String("pointID", p.ID),
		)
		return ActivationInert, nil
	}
}

// CompleteSubDialog closes the active sub-dialog session and hands control
// back to the normal dialog flow.
func (n *Navigator) CompleteSubDialog() {
	n.sub = nil
}
