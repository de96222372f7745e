package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jverdu-r/42-transcendence-sub000/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// CountByRound counts a tournament's matches under a round of the fixed
	// sequence (exact label for the final, prefix for numbered rounds).
	CountByRound(ctx context.Context, tournamentID int, round string) (int, error)
	// CountUnfinishedByRound counts the round's matches whose status is not
	// finished, as currently materialized in the store.
	CountUnfinishedByRound(ctx context.Context, tournamentID int, round string) (int, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	// ListUnprovisioned returns pending tournament matches with at least one
	// human participant and no external id yet, for the reconciler.
	ListUnprovisioned(ctx context.Context) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, tournament_id, round, status, external_id, created_at
		FROM matches
		WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.TournamentID,
		&match.Round,
		&match.Status,
		&match.ExternalID,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) CountByRound(ctx context.Context, tournamentID int, round string) (int, error) {
	query := `SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND ` + roundPredicate("round", 2)

	var count int
	if err := r.db.QueryRowContext(ctx, query, tournamentID, round).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches for tournament %d round %s: %w", tournamentID, round, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) CountUnfinishedByRound(ctx context.Context, tournamentID int, round string) (int, error) {
	query := `SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND status <> $3 AND ` + roundPredicate("round", 2)

	var count int
	if err := r.db.QueryRowContext(ctx, query, tournamentID, round, models.MatchStatusFinished).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unfinished matches for tournament %d round %s: %w", tournamentID, round, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	query := `
		SELECT id, tournament_id, round, status, external_id, created_at
		FROM matches
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func (r *postgresMatchRepository) ListUnprovisioned(ctx context.Context) ([]*models.Match, error) {
	query := `
		SELECT m.id, m.tournament_id, m.round, m.status, m.external_id, m.created_at
		FROM matches m
		WHERE m.tournament_id IS NOT NULL
		  AND m.status = $1
		  AND m.external_id IS NULL
		  AND EXISTS (
			SELECT 1 FROM participants p WHERE p.match_id = m.id AND p.is_bot = FALSE
		  )
		ORDER BY m.id ASC`

	rows, err := r.db.QueryContext(ctx, query, models.MatchStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprovisioned matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func scanMatches(rows *sql.Rows) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if err := rows.Scan(
			&match.ID,
			&match.TournamentID,
			&match.Round,
			&match.Status,
			&match.ExternalID,
			&match.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, &match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}
