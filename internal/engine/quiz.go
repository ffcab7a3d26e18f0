package engine

import (
	"sort"

	"relic-server/internal/models"
)

// SubmitStatus reports the outcome of a quiz submission attempt. Submitting
// twice or with nothing selected are no-ops, not errors.
type SubmitStatus string

const (
	SubmitAccepted         SubmitStatus = "accepted"
	SubmitNothingSelected  SubmitStatus = "nothing-selected"
	SubmitAlreadySubmitted SubmitStatus = "already-submitted"
)

// QuizResult is the frozen score of a submitted quiz.
type QuizResult struct {
	Score       int    `json:"score"`
	MaxScore    int    `json:"maxScore"`
	Explanation string `json:"explanation,omitempty"`
	Selected    []int  `json:"selected"`
}

// QuizState runs a multi-select quiz: options are toggled freely until
// submission, after which the selection is frozen and the score computed
// once.
type QuizState struct {
	quiz     *models.Quiz
	selected map[int]bool
	result   *QuizResult
}

func NewQuizState(quiz *models.Quiz) *QuizState {
	return &QuizState{
		quiz:     quiz,
		selected: make(map[int]bool),
	}
}

// Toggle flips membership of the option index in the selected set. After
// submission the call is ignored and reports false. An out-of-range index is
// ErrInvalidOptionIndex.
func (s *QuizState) Toggle(index int) (bool, error) {
	if index < 0 || index >= len(s.quiz.Options) {
		return false, ErrInvalidOptionIndex
	}
	if s.result != nil {
		return false, nil
	}
	if s.selected[index] {
		delete(s.selected, index)
	} else {
		s.selected[index] = true
	}
	return true, nil
}

// Selected returns the currently selected option indices in ascending order.
func (s *QuizState) Selected() []int {
	out := make([]int, 0, len(s.selected))
	for i := range s.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Submit freezes the selection and scores it: +1 for every correct option
// selected, -1 for every incorrect option selected, floored at zero.
// MaxScore is the count of correct options. Irreversible; repeated calls
// return the original result.
func (s *QuizState) Submit() (*QuizResult, SubmitStatus) {
	if s.result != nil {
		return s.result, SubmitAlreadySubmitted
	}
	if len(s.selected) == 0 {
		return nil, SubmitNothingSelected
	}

	score := 0
	maxScore := 0
	for i, opt := range s.quiz.Options {
		if opt.Correct {
			maxScore++
			if s.selected[i] {
				score++
			}
		} else if s.selected[i] {
			score--
		}
	}
	if score < 0 {
		score = 0
	}

	s.result = &QuizResult{
		Score:       score,
		MaxScore:    maxScore,
		Explanation: s.quiz.Explanation,
		Selected:    s.Selected(),
	}
	return s.result, SubmitAccepted
}

// Result returns the frozen score, if the quiz has been submitted.
func (s *QuizState) Result() (*QuizResult, bool) {
	if s.result == nil {
		return nil, false
	}
	return s.result, true
}
