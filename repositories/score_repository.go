package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jverdu-r/42-transcendence-sub000/models"
)

type ScoreRepository interface {
	ListByTournament(ctx context.Context, tournamentID int) ([]models.ScoreRecord, error)
}

type postgresScoreRepository struct {
	db *sql.DB
}

func NewPostgresScoreRepository(db *sql.DB) ScoreRepository {
	return &postgresScoreRepository{db: db}
}

func (r *postgresScoreRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.ScoreRecord, error) {
	query := `
		SELECT s.id, s.match_id, s.slot, s.points
		FROM scores s
		JOIN matches m ON m.id = s.match_id
		WHERE m.tournament_id = $1
		ORDER BY s.match_id ASC, s.slot ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	scores := make([]models.ScoreRecord, 0)
	for rows.Next() {
		var s models.ScoreRecord
		if err := rows.Scan(&s.ID, &s.MatchID, &s.Slot, &s.Points); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during score rows iteration: %w", err)
	}
	return scores, nil
}
