package services

import "errors"

// Errors shared across services and the HTTP error mapping. Bracket-logic
// outcomes that are legitimate results of the advance workflow (still
// pending, already materialized) are not errors, they are AdvanceOutcome
// values.
var (
	// Caller errors.
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrNoRoundsFound      = errors.New("no bracket rounds found for tournament")
	ErrInvalidWinnerSlot  = errors.New("winner slot must be A or B")
	ErrMatchNotStartable  = errors.New("match cannot be finished in its current status")

	// Data-integrity error: a round completed with zero recorded winners.
	// Not auto-retried, requires investigation.
	ErrNoWinnersFound = errors.New("round completed with no recorded winners")
)
