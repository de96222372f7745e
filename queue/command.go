package queue

import (
	"github.com/jverdu-r/42-transcendence-sub000/models"
)

// Kind tags the closed set of write commands the engine produces. The
// consumer only ever executes the rendered statement, the tag exists for
// its bookkeeping and for inspection of the queue table.
type Kind string

const (
	KindCreateMatch         Kind = "create_match"
	KindCreateParticipant   Kind = "create_participant"
	KindCreateScore         Kind = "create_score"
	KindSetWinner           Kind = "set_winner"
	KindSetScore            Kind = "set_score"
	KindSetMatchStatus      Kind = "set_match_status"
	KindSetExternalID       Kind = "set_external_id"
	KindSetTournamentStatus Kind = "set_tournament_status"
)

// Command is a single write destined for the external writer process.
// Statement renders the SQL statement template and its ordered bound
// parameters, the wire format the writer consumes.
type Command interface {
	Kind() Kind
	Statement() (string, []any)
}

// CreateMatch creates a bracket match under a round label. The label is the
// key later commands use to reach the row before its generated id is known
// to any producer.
type CreateMatch struct {
	TournamentID int
	Round        string
	Status       models.MatchStatus
}

func (c CreateMatch) Kind() Kind { return KindCreateMatch }

func (c CreateMatch) Statement() (string, []any) {
	return `INSERT INTO matches (tournament_id, round, status) VALUES ($1, $2, $3)`,
		[]any{c.TournamentID, c.Round, string(c.Status)}
}

// CreateParticipant attaches a participant to the match identified by
// (tournament, round label). The subselect resolves the match id at apply
// time; FIFO order guarantees the match row exists by then.
type CreateParticipant struct {
	TournamentID int
	Round        string
	Slot         models.Slot
	UserID       *int
	IsBot        bool
}

func (c CreateParticipant) Kind() Kind { return KindCreateParticipant }

func (c CreateParticipant) Statement() (string, []any) {
	return `INSERT INTO participants (match_id, user_id, is_bot, is_winner, slot)
		SELECT id, $3, $4, FALSE, $5 FROM matches WHERE tournament_id = $1 AND round = $2`,
		[]any{c.TournamentID, c.Round, c.UserID, c.IsBot, string(c.Slot)}
}

// CreateScore initializes the score record for one slot of a match
// identified by (tournament, round label).
type CreateScore struct {
	TournamentID int
	Round        string
	Slot         models.Slot
	Points       int
}

func (c CreateScore) Kind() Kind { return KindCreateScore }

func (c CreateScore) Statement() (string, []any) {
	return `INSERT INTO scores (match_id, slot, points)
		SELECT id, $3, $4 FROM matches WHERE tournament_id = $1 AND round = $2`,
		[]any{c.TournamentID, c.Round, string(c.Slot), c.Points}
}

// SetWinner flags a participant as the winner of its match. Idempotent: the
// flag is absolute, not a delta.
type SetWinner struct {
	ParticipantID int
}

func (c SetWinner) Kind() Kind { return KindSetWinner }

func (c SetWinner) Statement() (string, []any) {
	return `UPDATE participants SET is_winner = TRUE WHERE id = $1`,
		[]any{c.ParticipantID}
}

// SetScore patches the final point count of one slot of a match.
type SetScore struct {
	MatchID int
	Slot    models.Slot
	Points  int
}

func (c SetScore) Kind() Kind { return KindSetScore }

func (c SetScore) Statement() (string, []any) {
	return `UPDATE scores SET points = $3 WHERE match_id = $1 AND slot = $2`,
		[]any{c.MatchID, string(c.Slot), c.Points}
}

// SetMatchStatus patches the status column of a match.
type SetMatchStatus struct {
	MatchID int
	Status  models.MatchStatus
}

func (c SetMatchStatus) Kind() Kind { return KindSetMatchStatus }

func (c SetMatchStatus) Statement() (string, []any) {
	return `UPDATE matches SET status = $2 WHERE id = $1`,
		[]any{c.MatchID, string(c.Status)}
}

// SetExternalID back-patches the matchmaker's id onto a freshly materialized
// match, keyed by round label because the match id is not yet readable.
type SetExternalID struct {
	TournamentID int
	Round        string
	ExternalID   string
}

func (c SetExternalID) Kind() Kind { return KindSetExternalID }

func (c SetExternalID) Statement() (string, []any) {
	return `UPDATE matches SET external_id = $3 WHERE tournament_id = $1 AND round = $2`,
		[]any{c.TournamentID, c.Round, c.ExternalID}
}

// SetTournamentStatus flips the tournament status. Redundant sets are
// harmless, the column is absolute.
type SetTournamentStatus struct {
	TournamentID int
	Status       models.TournamentStatus
}

func (c SetTournamentStatus) Kind() Kind { return KindSetTournamentStatus }

func (c SetTournamentStatus) Statement() (string, []any) {
	return `UPDATE tournaments SET status = $2 WHERE id = $1`,
		[]any{c.TournamentID, string(c.Status)}
}
