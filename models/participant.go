package models

// Slot labels the two sides of a match.
type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
)

// Participant is one side of a match. UserID nil means a bot occupies the
// slot. DisplayName is resolved by the read model (user alias, or the bot
// name) and is never written back.
type Participant struct {
	ID          int    `json:"id" db:"id"`
	MatchID     int    `json:"match_id" db:"match_id"`
	UserID      *int   `json:"user_id,omitempty" db:"user_id"`
	IsBot       bool   `json:"is_bot" db:"is_bot"`
	IsWinner    bool   `json:"is_winner" db:"is_winner"`
	Slot        Slot   `json:"slot" db:"slot"`
	DisplayName string `json:"display_name,omitempty" db:"-"`
}

// RoundWinner is a winning participant as the pairing resolver consumes it:
// enough identity to seed the next round, ordered deterministically by the
// repository (match id, then participant id).
type RoundWinner struct {
	ParticipantID int
	MatchID       int
	UserID        *int
	IsBot         bool
	DisplayName   string
}
