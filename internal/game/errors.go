package game

import "errors"

// Error taxonomy for move and lifecycle handling. Handlers map these to
// HTTP statuses; anything else is reported as a generic internal error.
var (
	ErrValidation          = errors.New("missing or invalid required fields")
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionExists       = errors.New("session already exists for match")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrIllegalMove         = errors.New("illegal move")
	ErrIllegalState        = errors.New("game is already finished")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)
