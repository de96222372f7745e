package models

import "time"

// TournamentStatus matches the ENUM in the database.
type TournamentStatus string

const (
	TournamentStatusActive   TournamentStatus = "active"
	TournamentStatusFinished TournamentStatus = "finished"
)

type Tournament struct {
	ID        int              `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Status    TournamentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`

	// Optional related entities, populated by the bracket read path.
	Matches []Match `json:"matches,omitempty" db:"-"`
}
