package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jverdu-r/42-transcendence-sub000/brackets"
	"github.com/jverdu-r/42-transcendence-sub000/models"
	"github.com/jverdu-r/42-transcendence-sub000/queue"
	"github.com/jverdu-r/42-transcendence-sub000/repositories"
)

// FinishMatchInput carries the final scores of a match and which slot won.
type FinishMatchInput struct {
	WinnerSlot models.Slot `json:"winner_slot"`
	ScoreA     int         `json:"score_a"`
	ScoreB     int         `json:"score_b"`
}

// FinishMatchResult reports the recorded finish and, for tournament matches,
// the outcome of the advance workflow the finish triggered.
type FinishMatchResult struct {
	MatchID int            `json:"match_id"`
	Advance *AdvanceResult `json:"advance,omitempty"`
}

type MatchService interface {
	// FinishMatch records the final scores and the winner through the
	// command queue, then triggers the advance workflow when the match
	// belongs to a tournament.
	FinishMatch(ctx context.Context, matchID int, input FinishMatchInput) (*FinishMatchResult, error)
}

type matchService struct {
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	writeQueue      queue.Queue
	progression     ProgressionService
	hub             EventBroadcaster
	logger          *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	writeQueue queue.Queue,
	progression ProgressionService,
	hub EventBroadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		writeQueue:      writeQueue,
		progression:     progression,
		hub:             hub,
		logger:          logger,
	}
}

func (s *matchService) FinishMatch(ctx context.Context, matchID int, input FinishMatchInput) (*FinishMatchResult, error) {
	if input.WinnerSlot != models.SlotA && input.WinnerSlot != models.SlotB {
		return nil, ErrInvalidWinnerSlot
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", matchID, err)
	}
	if match.Status == models.MatchStatusFinished {
		return nil, fmt.Errorf("%w: match %d is already finished", ErrMatchNotStartable, matchID)
	}

	participants, err := s.participantRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants of match %d: %w", matchID, err)
	}

	winnerParticipantID := 0
	for _, p := range participants {
		if p.Slot == input.WinnerSlot {
			winnerParticipantID = p.ID
			break
		}
	}
	if winnerParticipantID == 0 {
		return nil, fmt.Errorf("%w: match %d has no participant in slot %s", ErrInvalidWinnerSlot, matchID, input.WinnerSlot)
	}

	err = s.writeQueue.EnqueueAll(ctx,
		queue.SetScore{MatchID: matchID, Slot: models.SlotA, Points: input.ScoreA},
		queue.SetScore{MatchID: matchID, Slot: models.SlotB, Points: input.ScoreB},
		queue.SetWinner{ParticipantID: winnerParticipantID},
		queue.SetMatchStatus{MatchID: matchID, Status: models.MatchStatusFinished},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record finish of match %d: %w", matchID, err)
	}

	result := &FinishMatchResult{MatchID: matchID}

	if match.TournamentID == nil {
		return result, nil
	}

	s.hub.BroadcastToRoom(roomID(*match.TournamentID), brackets.EventMatchFinished, map[string]interface{}{
		"match_id":    matchID,
		"round":       brackets.BaseRound(match.Round),
		"winner_slot": input.WinnerSlot,
	})

	advance, err := s.progression.AdvanceTournament(ctx, *match.TournamentID)
	if err != nil {
		// The finish itself is already durably enqueued; surface the
		// advance failure so the caller retries the advance, not the finish.
		return nil, fmt.Errorf("match %d finished but advance failed: %w", matchID, err)
	}
	result.Advance = advance

	return result, nil
}
