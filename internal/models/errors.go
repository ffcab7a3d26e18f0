package models

import "errors"

// Application-wide standard errors
var (
	// Common resource errors
	ErrNotFound         = errors.New("resource not found")
	ErrStoryNotFound    = errors.New("story not found")
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrSessionNotFound  = errors.New("play session not found")

	// Content integrity errors (recoverable: the engine refuses the
	// specific transition and stays on the current valid state)
	ErrSceneNotFound        = errors.New("scene not found in story")
	ErrDialogNotFound       = errors.New("dialog not found in scene")
	ErrDialogNotInteractive = errors.New("dialog has no interactive payload")
	ErrPointNotFound        = errors.New("interaction point not found in scene")
	ErrInvalidStoryContent  = errors.New("story content failed validation")

	// Sub-dialog session errors
	ErrNoActiveSubDialog  = errors.New("no sub-dialog session is active")
	ErrWrongSubDialogKind = errors.New("operation does not match active sub-dialog kind")

	// Token errors (verification only; tokens are issued elsewhere)
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrUnauthorized   = errors.New("unauthorized")

	// General request/server errors
	ErrInternalServer = errors.New("internal server error")
	ErrInvalidInput   = errors.New("invalid input data")
)
