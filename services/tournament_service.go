package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jverdu-r/42-transcendence-sub000/models"
	"github.com/jverdu-r/42-transcendence-sub000/repositories"
	"github.com/jverdu-r/42-transcendence-sub000/storage"
	"golang.org/x/sync/errgroup"
)

type TournamentService interface {
	// GetBracket assembles the tournament with its matches, participants
	// and scores as currently materialized in the store.
	GetBracket(ctx context.Context, tournamentID int) (*models.Tournament, error)
	// ListActive returns the tournaments whose bracket is still progressing.
	ListActive(ctx context.Context) ([]*models.Tournament, error)
	// ArchiveBracket uploads a JSON snapshot of the bracket to object
	// storage. No-op when no uploader is configured.
	ArchiveBracket(ctx context.Context, tournamentID int) error
}

type tournamentService struct {
	tournamentRepo  repositories.TournamentRepository
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	scoreRepo       repositories.ScoreRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	scoreRepo repositories.ScoreRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo:  tournamentRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		scoreRepo:       scoreRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func (s *tournamentService) GetBracket(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	var (
		matches      []*models.Match
		participants []models.Participant
		scores       []models.ScoreRecord
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		scores, err = s.scoreRepo.ListByTournament(gCtx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble bracket for tournament %d: %w", tournamentID, err)
	}

	participantsByMatch := make(map[int][]models.Participant)
	for _, p := range participants {
		participantsByMatch[p.MatchID] = append(participantsByMatch[p.MatchID], p)
	}
	scoresByMatch := make(map[int][]models.ScoreRecord)
	for _, sc := range scores {
		scoresByMatch[sc.MatchID] = append(scoresByMatch[sc.MatchID], sc)
	}

	tournament.Matches = make([]models.Match, 0, len(matches))
	for _, m := range matches {
		m.Participants = participantsByMatch[m.ID]
		m.Scores = scoresByMatch[m.ID]
		tournament.Matches = append(tournament.Matches, *m)
	}

	return tournament, nil
}

func (s *tournamentService) ListActive(ctx context.Context) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.ListByStatus(ctx, models.TournamentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) ArchiveBracket(ctx context.Context, tournamentID int) error {
	if s.uploader == nil {
		return nil
	}

	bracket, err := s.GetBracket(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to snapshot bracket for tournament %d: %w", tournamentID, err)
	}

	payload, err := json.MarshalIndent(bracket, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bracket archive for tournament %d: %w", tournamentID, err)
	}

	key := fmt.Sprintf("brackets/tournament_%d.json", tournamentID)
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to upload bracket archive for tournament %d: %w", tournamentID, err)
	}

	s.logger.Info("bracket archived",
		slog.Int("tournament_id", tournamentID),
		slog.String("location", result.Location),
	)
	return nil
}
