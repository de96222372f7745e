package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jverdu-r/42-transcendence-sub000/matchmaker"
	"github.com/jverdu-r/42-transcendence-sub000/models"
	"github.com/jverdu-r/42-transcendence-sub000/queue"
	"github.com/jverdu-r/42-transcendence-sub000/repositories"
)

// ReconcilerService retries external provisioning for matches the
// matchmaker call failed on during advance. Those matches exist in the
// store but cannot be joined until they carry an external id.
type ReconcilerService interface {
	// ReconcileUnprovisioned provisions every pending human match without
	// an external id and returns how many it repaired.
	ReconcileUnprovisioned(ctx context.Context) (int, error)
}

type reconcilerService struct {
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	writeQueue      queue.Queue
	provisioner     MatchProvisioner
	logger          *slog.Logger
}

func NewReconcilerService(
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	writeQueue queue.Queue,
	provisioner MatchProvisioner,
	logger *slog.Logger,
) ReconcilerService {
	return &reconcilerService{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		writeQueue:      writeQueue,
		provisioner:     provisioner,
		logger:          logger,
	}
}

func (s *reconcilerService) ReconcileUnprovisioned(ctx context.Context) (int, error) {
	matches, err := s.matchRepo.ListUnprovisioned(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list unprovisioned matches: %w", err)
	}

	repaired := 0
	for _, match := range matches {
		participants, err := s.participantRepo.ListByMatch(ctx, match.ID)
		if err != nil {
			s.logger.Error("reconciler failed to load participants",
				slog.Int("match_id", match.ID), slog.Any("error", err))
			continue
		}
		if len(participants) != 2 {
			// The participant rows of this match may still sit in the
			// queue; a later pass picks it up.
			continue
		}

		externalID, err := s.provisioner.CreateRemoteMatch(ctx, matchmaker.CreateMatchRequest{
			Mode:    "tournament",
			Player1: displayName(participants[0]),
			Player2: displayName(participants[1]),
		})
		if err != nil {
			s.logger.Warn("reconciler provisioning attempt failed",
				slog.Int("match_id", match.ID), slog.Any("error", err))
			continue
		}

		cmd := queue.SetExternalID{
			TournamentID: *match.TournamentID,
			Round:        match.Round,
			ExternalID:   externalID,
		}
		if err := s.writeQueue.Enqueue(ctx, cmd); err != nil {
			s.logger.Error("reconciler failed to enqueue external id patch",
				slog.Int("match_id", match.ID), slog.Any("error", err))
			continue
		}

		repaired++
		s.logger.Info("reprovisioned match",
			slog.Int("match_id", match.ID), slog.String("external_id", externalID))
	}

	return repaired, nil
}

func displayName(p models.Participant) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.IsBot {
		return "bot"
	}
	return fmt.Sprintf("player_%d", p.ID)
}
