package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jverdu-r/42-transcendence-sub000/models"
)

type ParticipantRepository interface {
	ListByMatch(ctx context.Context, matchID int) ([]models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error)
	// ListRoundWinners returns the winning participants of a round, ordered
	// by originating match id then participant id. The ordering is the
	// pairing resolver's determinism contract, keep it stable.
	ListRoundWinners(ctx context.Context, tournamentID int, round string) ([]models.RoundWinner, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

const participantColumns = `p.id, p.match_id, p.user_id, p.is_bot, p.is_winner, p.slot, COALESCE(u.alias, 'bot')`

func (r *postgresParticipantRepository) ListByMatch(ctx context.Context, matchID int) ([]models.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants p
		LEFT JOIN users u ON u.id = p.user_id
		WHERE p.match_id = $1
		ORDER BY p.slot ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for match %d: %w", matchID, err)
	}
	defer rows.Close()

	return scanParticipants(rows)
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants p
		LEFT JOIN users u ON u.id = p.user_id
		JOIN matches m ON m.id = p.match_id
		WHERE m.tournament_id = $1
		ORDER BY p.match_id ASC, p.slot ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	return scanParticipants(rows)
}

func (r *postgresParticipantRepository) ListRoundWinners(ctx context.Context, tournamentID int, round string) ([]models.RoundWinner, error) {
	query := `
		SELECT p.id, p.match_id, p.user_id, p.is_bot, COALESCE(u.alias, 'bot')
		FROM participants p
		LEFT JOIN users u ON u.id = p.user_id
		JOIN matches m ON m.id = p.match_id
		WHERE m.tournament_id = $1 AND p.is_winner = TRUE AND ` + roundPredicate("m.round", 2) + `
		ORDER BY p.match_id ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to query winners for tournament %d round %s: %w", tournamentID, round, err)
	}
	defer rows.Close()

	winners := make([]models.RoundWinner, 0)
	for rows.Next() {
		var w models.RoundWinner
		if err := rows.Scan(&w.ParticipantID, &w.MatchID, &w.UserID, &w.IsBot, &w.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan winner row: %w", err)
		}
		winners = append(winners, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during winner rows iteration: %w", err)
	}
	return winners, nil
}

func scanParticipants(rows *sql.Rows) ([]models.Participant, error) {
	participants := make([]models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.MatchID, &p.UserID, &p.IsBot, &p.IsWinner, &p.Slot, &p.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}
