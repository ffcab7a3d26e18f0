package engine

import (
	"relic-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is one play-through of a story. It owns the navigator, the display
// state used by the coordinate transform, and the ephemeral sub-dialog
// session. All mutations are serialized by the owning service; the session
// itself is not safe for concurrent use.
type Session struct {
	ID    uuid.UUID
	Story *models.Story

	nav         *Navigator
	orientation Orientation
	extents     Extents
	logger      *zap.Logger
}

// PointView is an interaction point with its position already adapted to the
// session's current display.
type PointView struct {
	ID       string           `json:"id"`
	Kind     models.PointKind `json:"kind"`
	Hint     string           `json:"hint,omitempty"`
	Position models.Position  `json:"position"`
}

// SubDialogView describes the active sub-dialog session for presentation.
type SubDialogView struct {
	DialogID string        `json:"dialogId"`
	Kind     SubDialogKind `json:"kind"`
	Selected []int         `json:"selected,omitempty"`
	Choice   *ChoiceResult `json:"choiceResult,omitempty"`
	Quiz     *QuizResult   `json:"quizResult,omitempty"`
}

// View is the renderable state of the session: active scene, current dialog,
// and, once the dialog sequence is exhausted, the visible interaction
// points.
type View struct {
	SceneID     string         `json:"sceneId"`
	Background  string         `json:"background"`
	Dialog      *models.Dialog `json:"dialog,omitempty"`
	DialogIndex int            `json:"dialogIndex"`
	DialogCount int            `json:"dialogCount"`
	Points      []PointView    `json:"points,omitempty"`
	SubDialog   *SubDialogView `json:"subDialog,omitempty"`
}

// NewSession starts a session at the story's first scene, dialog index 0,
// portrait orientation with baseline extents.
func NewSession(id uuid.UUID, story *models.Story, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := story.Baseline
	if base.Width == 0 || base.Height == 0 {
		base = DefaultBaseline
	}
	return &Session{
		ID:          id,
		Story:       story,
		nav:         NewNavigator(story, logger),
		orientation: OrientationPortrait,
		extents:     Extents{Width: base.Width, Height: base.Height},
		logger:      logger.Named("Session").With(zap.String("sessionID", id.String())),
	}
}

// UpdateDisplay records an orientation or extents change. The coordinate
// transform is pure, so this never touches navigator state and may
// interleave freely with taps.
func (s *Session) UpdateDisplay(o Orientation, ext Extents) {
	if o != OrientationLandscape {
		o = OrientationPortrait
	}
	s.orientation = o
	if ext.Width > 0 && ext.Height > 0 {
		s.extents = ext
	}
}

// Current assembles the renderable view of the session.
func (s *Session) Current() View {
	scene := s.nav.Scene()
	if scene == nil {
		return View{}
	}
	cursor := s.nav.Cursor()
	v := View{
		SceneID:     scene.ID,
		Background:  scene.Background,
		DialogIndex: cursor.Index(),
		DialogCount: len(scene.Dialogs),
	}
	if d, ok := cursor.Current(); ok {
		v.Dialog = d
	}
	if cursor.AtEnd() {
		v.Points = s.visiblePoints(scene)
	}
	if sub := s.nav.SubDialog(); sub != nil {
		v.SubDialog = s.subDialogView(sub)
	}
	return v
}

// Advance steps the dialog cursor forward, per the cursor's exhaustion
// policy.
func (s *Session) Advance() StepResult {
	return s.nav.Cursor().Advance()
}

// Retreat steps the dialog cursor backward, a no-op at the start.
func (s *Session) Retreat() StepResult {
	return s.nav.Cursor().Retreat()
}

// ActivateInteraction applies the interaction point with the given id.
func (s *Session) ActivateInteraction(pointID string) (ActivationOutcome, error) {
	return s.nav.Activate(pointID)
}

// SelectChoice locks in the option of the active choice sub-dialog.
func (s *Session) SelectChoice(index int) (*ChoiceResult, error) {
	sub := s.nav.SubDialog()
	if sub == nil {
		return nil, models.ErrNoActiveSubDialog
	}
	if sub.Kind != SubDialogChoice {
		return nil, models.ErrWrongSubDialogKind
	}
	return sub.Choice.Select(index)
}

// ToggleQuizOption flips one option of the active quiz sub-dialog.
func (s *Session) ToggleQuizOption(index int) (bool, error) {
	sub := s.nav.SubDialog()
	if sub == nil {
		return false, models.ErrNoActiveSubDialog
	}
	if sub.Kind != SubDialogQuiz {
		return false, models.ErrWrongSubDialogKind
	}
	return sub.Quiz.Toggle(index)
}

// SubmitQuiz freezes and scores the active quiz sub-dialog.
func (s *Session) SubmitQuiz() (*QuizResult, SubmitStatus, error) {
	sub := s.nav.SubDialog()
	if sub == nil {
		return nil, "", models.ErrNoActiveSubDialog
	}
	if sub.Kind != SubDialogQuiz {
		return nil, "", models.ErrWrongSubDialogKind
	}
	result, status := sub.Quiz.Submit()
	return result, status, nil
}

// CompleteSubDialog dismisses the active sub-dialog, if any.
func (s *Session) CompleteSubDialog() {
	s.nav.CompleteSubDialog()
}

// History returns the append-only dialog visit log.
func (s *Session) History() []HistoryEntry {
	return s.nav.Cursor().History()
}

func (s *Session) visiblePoints(scene *models.Scene) []PointView {
	if len(scene.Points) == 0 {
		return nil
	}
	base := s.Story.Baseline
	out := make([]PointView, 0, len(scene.Points))
	for _, p := range scene.Points {
		out = append(out, PointView{
			ID:       p.ID,
			Kind:     p.Kind,
			Hint:     p.Hint,
			Position: AdaptPosition(p.Position, s.orientation, s.extents, base),
		})
	}
	return out
}

func (s *Session) subDialogView(sub *SubDialog) *SubDialogView {
	v := &SubDialogView{
		DialogID: sub.DialogID,
		Kind:     sub.Kind,
	}
	switch sub.Kind {
	case SubDialogChoice:
		if r, ok := sub.Choice.Result(); ok {
			v.Choice = r
		}
	case SubDialogQuiz:
		v.Selected = sub.Quiz.Selected()
		if r, ok := sub.Quiz.Result(); ok {
			v.Quiz = r
		}
	}
	return v
}
