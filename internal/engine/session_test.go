package engine

import (
	"testing"

	"relic-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bronzeHallStory is the shared play-through fixture: an entry scene with
// three dialogs, a quiz point, a choice point, a door to a second scene, and
// assorted malformed points the engine must survive.
func bronzeHallStory() *models.Story {
	return &models.Story{
		ID:         uuid.New(),
		Title:      "The Bronze Hall",
		ArtifactID: "ding-01",
		Baseline:   models.Baseline{Width: 375, Height: 667},
		Scenes: []models.Scene{
			{
				ID:         "hall",
				Background: "hall.png",
				Dialogs: []models.Dialog{
					{ID: "h1", Speaker: "guide", Text: "Welcome to the hall."},
					{ID: "h2", Speaker: "guide", Text: "The ding stands before you."},
					{
						ID: "h-quiz", Speaker: "guide", Text: "What do you know of it?",
						Quiz: &models.Quiz{
							Options: []models.QuizOption{
								{Text: "Shang bronze", Correct: true},
								{Text: "Han porcelain", Correct: false},
							},
							Explanation: "Shang-era ritual bronze.",
						},
					},
				},
				Points: []models.InteractionPoint{
					{ID: "p-door", Position: models.Position{X: 100, Y: 200}, Kind: models.PointKindScene, NextScene: "vault"},
					{ID: "p-quiz", Position: models.Position{X: 50, Y: 50}, Kind: models.PointKindItem, TriggerDialog: "h-quiz"},
					{ID: "p-dual", Position: models.Position{X: 70, Y: 70}, Kind: models.PointKindScene, NextScene: "vault", TriggerDialog: "h-quiz"},
					{ID: "p-inert", Position: models.Position{X: 10, Y: 10}, Kind: models.PointKindItem},
					{ID: "p-ghost-scene", Position: models.Position{X: 20, Y: 20}, Kind: models.PointKindScene, NextScene: "nowhere"},
					{ID: "p-ghost-dialog", Position: models.Position{X: 30, Y: 30}, Kind: models.PointKindItem, TriggerDialog: "missing"},
					{ID: "p-plain-dialog", Position: models.Position{X: 40, Y: 40}, Kind: models.PointKindItem, TriggerDialog: "h1"},
				},
			},
			{
				ID:         "vault",
				Background: "vault.png",
				Dialogs: []models.Dialog{
					{ID: "v1", Speaker: "elder", Text: "Few reach this room."},
					{
						ID: "v-choice", Speaker: "elder", Text: "Will you take the jade?",
						Choices: []models.Choice{
							{Text: "Take it", Outcome: "It is heavier than it looks.", Correct: false},
							{Text: "Leave it", Outcome: "The elder smiles.", Correct: true},
						},
					},
				},
				Points: []models.InteractionPoint{
					{ID: "p-choice", Position: models.Position{X: 60, Y: 60}, Kind: models.PointKindCharacter, TriggerDialog: "v-choice"},
				},
			},
		},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return NewSession(uuid.New(), bronzeHallStory(), nil)
}

func TestSessionStartsAtFirstScene(t *testing.T) {
	s := newTestSession(t)
	v := s.Current()

	assert.Equal(t, "hall", v.SceneID)
	assert.Equal(t, "hall.png", v.Background)
	assert.Equal(t, 0, v.DialogIndex)
	assert.Equal(t, 3, v.DialogCount)
	require.NotNil(t, v.Dialog)
	assert.Equal(t, "h1", v.Dialog.ID)
	assert.Nil(t, v.SubDialog)

	// Points stay hidden until the dialog sequence is exhausted.
	assert.Empty(t, v.Points)
}

func TestSessionPlayThrough(t *testing.T) {
	s := newTestSession(t)

	assert.Equal(t, StepAdvanced, s.Advance())
	assert.Equal(t, StepAdvanced, s.Advance())
	assert.Equal(t, StepExhausted, s.Advance())

	v := s.Current()
	assert.Equal(t, "h-quiz", v.Dialog.ID)
	assert.Len(t, v.Points, 7)

	outcome, err := s.ActivateInteraction("p-door")
	require.NoError(t, err)
	assert.Equal(t, ActivationSceneChanged, outcome)

	v = s.Current()
	assert.Equal(t, "vault", v.SceneID)
	assert.Equal(t, 0, v.DialogIndex)
	assert.Equal(t, "v1", v.Dialog.ID)
	assert.Empty(t, v.Points)
}

func TestSessionQuizFlow(t *testing.T) {
	s := newTestSession(t)
	s.Advance()
	s.Advance()

	outcome, err := s.ActivateInteraction("p-quiz")
	require.NoError(t, err)
	assert.Equal(t, ActivationDialogOpened, outcome)

	v := s.Current()
	require.NotNil(t, v.SubDialog)
	assert.Equal(t, "h-quiz", v.SubDialog.DialogID)
	assert.Equal(t, SubDialogQuiz, v.SubDialog.Kind)

	applied, err := s.ToggleQuizOption(0)
	require.NoError(t, err)
	assert.True(t, applied)

	result, status, err := s.SubmitQuiz()
	require.NoError(t, err)
	assert.Equal(t, SubmitAccepted, status)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 1, result.MaxScore)

	v = s.Current()
	require.NotNil(t, v.SubDialog)
	require.NotNil(t, v.SubDialog.Quiz)
	assert.Equal(t, 1, v.SubDialog.Quiz.Score)

	s.CompleteSubDialog()
	v = s.Current()
	assert.Nil(t, v.SubDialog)
	// The underlying scene never moved while the quiz was open.
	assert.Equal(t, "hall", v.SceneID)
	assert.Equal(t, "h-quiz", v.Dialog.ID)
}

func TestSessionChoiceFlow(t *testing.T) {
	s := newTestSession(t)
	s.Advance()
	s.Advance()
	_, err := s.ActivateInteraction("p-door")
	require.NoError(t, err)
	s.Advance()

	outcome, err := s.ActivateInteraction("p-choice")
	require.NoError(t, err)
	assert.Equal(t, ActivationDialogOpened, outcome)

	result, err := s.SelectChoice(1)
	require.NoError(t, err)
	assert.Equal(t, "The elder smiles.", result.Outcome)
	assert.True(t, result.Correct)

	t.Run("second selection is rejected", func(t *testing.T) {
		again, err := s.SelectChoice(0)
		assert.ErrorIs(t, err, ErrChoiceAlreadyMade)
		assert.Equal(t, result, again)
	})

	t.Run("result survives in the view", func(t *testing.T) {
		v := s.Current()
		require.NotNil(t, v.SubDialog)
		require.NotNil(t, v.SubDialog.Choice)
		assert.Equal(t, 1, v.SubDialog.Choice.Index)
	})
}

func TestSessionSubDialogGuards(t *testing.T) {
	s := newTestSession(t)

	t.Run("no active sub-dialog", func(t *testing.T) {
		_, err := s.SelectChoice(0)
		assert.ErrorIs(t, err, models.ErrNoActiveSubDialog)
		_, err = s.ToggleQuizOption(0)
		assert.ErrorIs(t, err, models.ErrNoActiveSubDialog)
		_, _, err = s.SubmitQuiz()
		assert.ErrorIs(t, err, models.ErrNoActiveSubDialog)
	})

	t.Run("wrong sub-dialog kind", func(t *testing.T) {
		s.Advance()
		s.Advance()
		_, err := s.ActivateInteraction("p-quiz")
		require.NoError(t, err)

		_, err = s.SelectChoice(0)
		assert.ErrorIs(t, err, models.ErrWrongSubDialogKind)
	})
}

func TestSessionActivationFailuresAreRecoverable(t *testing.T) {
	s := newTestSession(t)
	s.Advance()
	s.Advance()
	before := s.Current()

	cases := []struct {
		name    string
		pointID string
		wantErr error
	}{
		{"unknown point", "p-missing", models.ErrPointNotFound},
		{"dangling scene reference", "p-ghost-scene", models.ErrSceneNotFound},
		{"dangling dialog reference", "p-ghost-dialog", models.ErrDialogNotFound},
		{"non-interactive dialog reference", "p-plain-dialog", models.ErrDialogNotInteractive},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.ActivateInteraction(tc.pointID)
			assert.ErrorIs(t, err, tc.wantErr)

			after := s.Current()
			assert.Equal(t, before.SceneID, after.SceneID)
			assert.Equal(t, before.DialogIndex, after.DialogIndex)
			assert.Nil(t, after.SubDialog)
		})
	}
}

func TestSessionInertPoint(t *testing.T) {
	s := newTestSession(t)
	s.Advance()
	s.Advance()

	outcome, err := s.ActivateInteraction("p-inert")
	require.NoError(t, err)
	assert.Equal(t, ActivationInert, outcome)

	v := s.Current()
	assert.Equal(t, "hall", v.SceneID)
	assert.Nil(t, v.SubDialog)
}

func TestSessionDualPurposePointPrefersScene(t *testing.T) {
	s := newTestSession(t)
	s.Advance()
	s.Advance()

	// A point carrying both a scene and a dialog reference changes scene;
	// the dialog reference is ignored and no sub-dialog opens.
	outcome, err := s.ActivateInteraction("p-dual")
	require.NoError(t, err)
	assert.Equal(t, ActivationSceneChanged, outcome)

	v := s.Current()
	assert.Equal(t, "vault", v.SceneID)
	assert.Equal(t, 0, v.DialogIndex)
	assert.Nil(t, v.SubDialog)
}

func TestSessionSceneChangeDiscardsSubDialog(t *testing.T) {
	s := newTestSession(t)
	s.Advance()
	s.Advance()

	_, err := s.ActivateInteraction("p-quiz")
	require.NoError(t, err)
	_, err = s.ToggleQuizOption(0)
	require.NoError(t, err)

	_, err = s.ActivateInteraction("p-door")
	require.NoError(t, err)

	v := s.Current()
	assert.Equal(t, "vault", v.SceneID)
	assert.Nil(t, v.SubDialog)
}

func TestSessionReopenedSubDialogStartsFresh(t *testing.T) {
	s := newTestSession(t)
	s.Advance()
	s.Advance()

	_, err := s.ActivateInteraction("p-quiz")
	require.NoError(t, err)
	_, err = s.ToggleQuizOption(0)
	require.NoError(t, err)

	// Re-activating the point discards the unsubmitted session.
	_, err = s.ActivateInteraction("p-quiz")
	require.NoError(t, err)

	v := s.Current()
	require.NotNil(t, v.SubDialog)
	assert.Empty(t, v.SubDialog.Selected)
}

func TestSessionDisplayUpdateAdaptsPoints(t *testing.T) {
	s := newTestSession(t)
	s.Advance()
	s.Advance()

	portrait := s.Current()
	require.NotEmpty(t, portrait.Points)
	assert.Equal(t, models.Position{X: 100, Y: 200}, portrait.Points[0].Position)

	s.UpdateDisplay(OrientationLandscape, Extents{Width: 667, Height: 375})

	landscape := s.Current()
	assert.InDelta(t, 200.0*375.0/667.0, landscape.Points[0].Position.X, 0.001)
	assert.InDelta(t, 100.0*667.0/375.0, landscape.Points[0].Position.Y, 0.001)

	// Display changes never touch navigation state.
	assert.Equal(t, portrait.SceneID, landscape.SceneID)
	assert.Equal(t, portrait.DialogIndex, landscape.DialogIndex)

	t.Run("back to portrait restores authored positions", func(t *testing.T) {
		s.UpdateDisplay(OrientationPortrait, Extents{Width: 375, Height: 667})
		v := s.Current()
		assert.Equal(t, models.Position{X: 100, Y: 200}, v.Points[0].Position)
	})
}

func TestSessionHistorySpansScenes(t *testing.T) {
	s := newTestSession(t)
	s.Advance()
	s.Advance()
	_, err := s.ActivateInteraction("p-door")
	require.NoError(t, err)
	s.Advance()

	ids := make([]string, 0)
	for _, e := range s.History() {
		ids = append(ids, e.DialogID)
	}
	assert.Equal(t, []string{"h1", "h2", "h-quiz", "v1", "v-choice"}, ids)
}
