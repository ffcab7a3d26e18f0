package engine

import (
	"testing"

	"relic-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuiz() *models.Quiz {
	return &models.Quiz{
		Options: []models.QuizOption{
			{Text: "Cast in the Shang dynasty", Correct: true},
			{Text: "Made of porcelain", Correct: false},
			{Text: "Used in ritual ceremonies", Correct: true},
			{Text: "Discovered in 1999", Correct: false},
		},
		Explanation: "The vessel is Shang-era ritual bronze.",
	}
}

func TestQuizToggle(t *testing.T) {
	s := NewQuizState(testQuiz())

	applied, err := s.Toggle(0)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.Toggle(2)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, []int{0, 2}, s.Selected())

	t.Run("toggling again deselects", func(t *testing.T) {
		_, err := s.Toggle(0)
		require.NoError(t, err)
		assert.Equal(t, []int{2}, s.Selected())
	})

	t.Run("out of range index", func(t *testing.T) {
		_, err := s.Toggle(4)
		assert.ErrorIs(t, err, ErrInvalidOptionIndex)
		_, err = s.Toggle(-1)
		assert.ErrorIs(t, err, ErrInvalidOptionIndex)
	})
}

func TestQuizSubmitScoring(t *testing.T) {
	cases := []struct {
		name     string
		selected []int
		score    int
	}{
		{"all correct", []int{0, 2}, 2},
		{"one correct", []int{0}, 1},
		{"correct and incorrect cancel", []int{0, 1}, 0},
		{"mixed", []int{0, 2, 3}, 1},
		{"all wrong floors at zero", []int{1, 3}, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewQuizState(testQuiz())
			for _, i := range tc.selected {
				_, err := s.Toggle(i)
				require.NoError(t, err)
			}

			result, status := s.Submit()
			require.Equal(t, SubmitAccepted, status)
			assert.Equal(t, tc.score, result.Score)
			assert.Equal(t, 2, result.MaxScore)
			assert.Equal(t, tc.selected, result.Selected)
			assert.Equal(t, "The vessel is Shang-era ritual bronze.", result.Explanation)
		})
	}
}

func TestQuizSubmitWithNothingSelected(t *testing.T) {
	s := NewQuizState(testQuiz())

	result, status := s.Submit()
	assert.Equal(t, SubmitNothingSelected, status)
	assert.Nil(t, result)

	// The quiz is still open afterwards.
	_, err := s.Toggle(0)
	require.NoError(t, err)
	_, status = s.Submit()
	assert.Equal(t, SubmitAccepted, status)
}

func TestQuizSubmitIsIrreversible(t *testing.T) {
	s := NewQuizState(testQuiz())
	_, err := s.Toggle(0)
	require.NoError(t, err)

	first, status := s.Submit()
	require.Equal(t, SubmitAccepted, status)

	t.Run("repeat submission returns the original result", func(t *testing.T) {
		again, status := s.Submit()
		assert.Equal(t, SubmitAlreadySubmitted, status)
		assert.Equal(t, first, again)
	})

	t.Run("toggles after submission are ignored", func(t *testing.T) {
		applied, err := s.Toggle(1)
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, []int{0}, s.Selected())

		result, ok := s.Result()
		require.True(t, ok)
		assert.Equal(t, first, result)
	})
}
