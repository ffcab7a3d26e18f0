package engine

import "errors"

var (
	ErrChoiceAlreadyMade  = errors.New("choice has already been made in this session")
	ErrInvalidOptionIndex = errors.New("option index out of range")
)
