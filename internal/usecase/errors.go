package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrGatewayForbidden: the football-data provider rejected our API key.
	// Retrying cannot help, callers should surface this immediately.
	ErrGatewayForbidden = errors.New("football data gateway forbidden")

	ErrMatchdayLocked     = errors.New("matchday is locked")
	ErrBetNotEditable     = errors.New("bet is no longer editable")
	ErrDuplicateBet       = errors.New("duplicate bet for fixture")
	ErrInsufficientBudget = errors.New("insufficient betting budget")
)
