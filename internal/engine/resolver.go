package engine

import "relic-server/internal/models"

// SubDialogKind is the presentation mode of an interactive dialog.
type SubDialogKind string

const (
	SubDialogChoice SubDialogKind = "choice"
	SubDialogQuiz   SubDialogKind = "quiz"
)

// SubDialog is an ephemeral session around one interactive dialog. Exactly
// one of Choice or Quiz is non-nil, matching Kind.
type SubDialog struct {
	DialogID string
	Kind     SubDialogKind
	Choice   *ChoiceState
	Quiz     *QuizState
}

// ResolveSubDialog locates the dialog by id within the scene and classifies
// it into a choice or quiz session. Missing dialogs and dialogs without an
// interactive payload are recoverable errors: the caller keeps its current
// state and no sub-dialog opens.
func ResolveSubDialog(scene *models.Scene, dialogID string) (*SubDialog, error) {
	d := scene.DialogByID(dialogID)
	if d == nil {
		return nil, models.ErrDialogNotFound
	}
	switch classify(d) {
	case models.DialogKindChoice:
		return &SubDialog{
			DialogID: d.ID,
			Kind:     SubDialogChoice,
			Choice:   NewChoiceState(d.Choices),
		}, nil
	case models.DialogKindQuiz:
		return &SubDialog{
			DialogID: d.ID,
			Kind:     SubDialogQuiz,
			Quiz:     NewQuizState(d.Quiz),
		}, nil
	default:
		return nil, models.ErrDialogNotInteractive
	}
}

// classify trusts the kind stamped by the content validator at load time and
// only falls back to shape inspection for content that skipped validation.
func classify(d *models.Dialog) models.DialogKind {
	if d.Kind != "" {
		return d.Kind
	}
	switch {
	case len(d.Choices) > 0:
		return models.DialogKindChoice
	case d.Quiz != nil:
		return models.DialogKindQuiz
	default:
		return models.DialogKindPlain
	}
}
