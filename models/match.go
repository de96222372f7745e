package models

import "time"

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusFinished   MatchStatus = "finished"
)

// Match is one bracket match. TournamentID is nil for casual (non-tournament)
// games that share the same table. Round carries a label from the fixed round
// sequence, optionally suffixed with a pairing index ("1/4-2"). ExternalID is
// set once the matchmaker has provisioned a joinable game for it.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID *int        `json:"tournament_id,omitempty" db:"tournament_id"`
	Round        string      `json:"round" db:"round"`
	Status       MatchStatus `json:"status" db:"status"`
	ExternalID   *string     `json:"external_id,omitempty" db:"external_id"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`

	Participants []Participant `json:"participants,omitempty" db:"-"`
	Scores       []ScoreRecord `json:"scores,omitempty" db:"-"`
}
