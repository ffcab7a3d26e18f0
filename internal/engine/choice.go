package engine

import "relic-server/internal/models"

// ChoiceResult is the locked-in outcome of a single-selection choice. The
// outcome text and correctness flag are displayed to the user verbatim;
// there is no aggregate score.
type ChoiceResult struct {
	Index   int    `json:"index"`
	Outcome string `json:"outcome"`
	Correct bool   `json:"correct"`
}

// ChoiceState runs a single-shot choice: the first selection is final and
// later selections are rejected, unlike the quiz's toggle-then-submit flow.
type ChoiceState struct {
	choices []models.Choice
	result  *ChoiceResult
}

func NewChoiceState(choices []models.Choice) *ChoiceState {
	return &ChoiceState{choices: choices}
}

// Select locks in the option at the given index. A second call returns the
// original result together with ErrChoiceAlreadyMade.
func (s *ChoiceState) Select(index int) (*ChoiceResult, error) {
	if s.result != nil {
		return s.result, ErrChoiceAlreadyMade
	}
	if index < 0 || index >= len(s.choices) {
		return nil, ErrInvalidOptionIndex
	}
	c := s.choices[index]
	s.result = &ChoiceResult{
		Index:   index,
		Outcome: c.Outcome,
		Correct: c.Correct,
	}
	return s.result, nil
}

// Result returns the recorded selection, if any.
func (s *ChoiceState) Result() (*ChoiceResult, bool) {
	if s.result == nil {
		return nil, false
	}
	return s.result, true
}
