package models

// ScoreRecord holds the final point count for one slot of a match.
// Exactly one record exists per slot per match.
type ScoreRecord struct {
	ID      int  `json:"id" db:"id"`
	MatchID int  `json:"match_id" db:"match_id"`
	Slot    Slot `json:"slot" db:"slot"`
	Points  int  `json:"points" db:"points"`
}
