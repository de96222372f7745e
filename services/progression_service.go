package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jverdu-r/42-transcendence-sub000/brackets"
	"github.com/jverdu-r/42-transcendence-sub000/matchmaker"
	"github.com/jverdu-r/42-transcendence-sub000/models"
	"github.com/jverdu-r/42-transcendence-sub000/queue"
	"github.com/jverdu-r/42-transcendence-sub000/repositories"
	"golang.org/x/sync/errgroup"
)

// AdvanceOutcome enumerates the terminal states of one advance invocation.
type AdvanceOutcome string

const (
	OutcomeStillInProgress     AdvanceOutcome = "still_in_progress"
	OutcomeAlreadyFinished     AdvanceOutcome = "already_finished"
	OutcomeNextRoundExists     AdvanceOutcome = "next_round_already_exists"
	OutcomeNextRoundCreated    AdvanceOutcome = "next_round_created"
	OutcomeTournamentCompleted AdvanceOutcome = "tournament_completed"
)

// AdvanceResult is what an advance invocation reports back to its caller.
type AdvanceResult struct {
	Outcome      AdvanceOutcome `json:"outcome"`
	Round        string         `json:"round,omitempty"`
	PairCount    int            `json:"pair_count,omitempty"`
	ByeCount     int            `json:"bye_count,omitempty"`
	PendingCount int            `json:"pending_count,omitempty"`
}

// MatchProvisioner creates a joinable game at the external matchmaker for a
// human-involving pairing.
type MatchProvisioner interface {
	CreateRemoteMatch(ctx context.Context, req matchmaker.CreateMatchRequest) (string, error)
}

// EventBroadcaster pushes progression events to tournament spectators.
type EventBroadcaster interface {
	BroadcastToRoom(roomID string, eventType string, payload interface{})
}

// BracketArchiver snapshots a finished bracket to long-term storage.
type BracketArchiver interface {
	ArchiveBracket(ctx context.Context, tournamentID int) error
}

type ProgressionService interface {
	// AdvanceTournament runs the whole advance workflow once. Safe to
	// re-invoke at any time with identical semantics: every write goes
	// through the command queue and every creation is guarded by a
	// check-then-act idempotency test against the read model.
	AdvanceTournament(ctx context.Context, tournamentID int) (*AdvanceResult, error)
}

type progressionService struct {
	tournamentRepo  repositories.TournamentRepository
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	writeQueue      queue.Queue
	provisioner     MatchProvisioner
	hub             EventBroadcaster
	archiver        BracketArchiver

	pollAttempts int
	pollDelay    time.Duration

	logger *slog.Logger
}

func NewProgressionService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	writeQueue queue.Queue,
	provisioner MatchProvisioner,
	hub EventBroadcaster,
	archiver BracketArchiver,
	pollAttempts int,
	pollDelay time.Duration,
	logger *slog.Logger,
) ProgressionService {
	return &progressionService{
		tournamentRepo:  tournamentRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		writeQueue:      writeQueue,
		provisioner:     provisioner,
		hub:             hub,
		archiver:        archiver,
		pollAttempts:    pollAttempts,
		pollDelay:       pollDelay,
		logger:          logger,
	}
}

func (s *progressionService) AdvanceTournament(ctx context.Context, tournamentID int) (*AdvanceResult, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	if tournament.Status == models.TournamentStatusFinished {
		return &AdvanceResult{Outcome: OutcomeAlreadyFinished}, nil
	}

	currentRound, err := s.detectCurrentRound(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	pending, complete, err := s.waitForRoundCompletion(ctx, tournamentID, currentRound)
	if err != nil {
		return nil, err
	}
	if !complete {
		// Not an error: writes marking matches finished may still sit in
		// the queue. The caller retries the whole workflow later.
		return &AdvanceResult{Outcome: OutcomeStillInProgress, Round: currentRound, PendingCount: pending}, nil
	}

	if brackets.IsFinalRound(currentRound) {
		return s.markTournamentFinished(ctx, tournamentID)
	}

	nextRound, ok := brackets.NextRound(currentRound)
	if !ok {
		return s.markTournamentFinished(ctx, tournamentID)
	}

	existing, err := s.matchRepo.CountByRound(ctx, tournamentID, nextRound)
	if err != nil {
		return nil, fmt.Errorf("failed to check next round %s for tournament %d: %w", nextRound, tournamentID, err)
	}
	if existing > 0 {
		// A concurrent or prior invocation already materialized the round.
		return &AdvanceResult{Outcome: OutcomeNextRoundExists, Round: nextRound}, nil
	}

	winners, err := s.participantRepo.ListRoundWinners(ctx, tournamentID, currentRound)
	if err != nil {
		return nil, fmt.Errorf("failed to list winners of round %s for tournament %d: %w", currentRound, tournamentID, err)
	}
	if len(winners) == 0 {
		return nil, fmt.Errorf("%w: tournament %d round %s", ErrNoWinnersFound, tournamentID, currentRound)
	}

	pairing := brackets.ResolvePairings(winners)
	for _, bye := range pairing.Byes {
		// Recorded but not materialized: the bracket shape folds byes into
		// a later pairing pass.
		s.logger.Warn("unpaired bye winner, deferring",
			slog.Int("tournament_id", tournamentID),
			slog.Int("participant_id", bye.ParticipantID),
			slog.String("round", currentRound),
		)
	}

	intended, err := s.materializeNextRound(ctx, tournamentID, nextRound, pairing.Pairs)
	if err != nil {
		return nil, err
	}

	s.provisionMatches(ctx, tournamentID, intended)

	s.hub.BroadcastToRoom(roomID(tournamentID), brackets.EventRoundCreated, map[string]interface{}{
		"tournament_id": tournamentID,
		"round":         nextRound,
		"pair_count":    len(pairing.Pairs),
	})

	return &AdvanceResult{
		Outcome:   OutcomeNextRoundCreated,
		Round:     nextRound,
		PairCount: len(pairing.Pairs),
		ByeCount:  len(pairing.Byes),
	}, nil
}

// detectCurrentRound scans the fixed sequence least to most advanced and
// returns the last label with any matches. Rounds are created strictly in
// order, so the most advanced non-empty round is the current one even while
// its matches are unfinished.
func (s *progressionService) detectCurrentRound(ctx context.Context, tournamentID int) (string, error) {
	current := ""
	for _, round := range brackets.RoundSequence {
		count, err := s.matchRepo.CountByRound(ctx, tournamentID, round)
		if err != nil {
			return "", fmt.Errorf("failed to count matches of round %s for tournament %d: %w", round, tournamentID, err)
		}
		if count > 0 {
			current = round
		}
	}
	if current == "" {
		return "", fmt.Errorf("%w: tournament %d", ErrNoRoundsFound, tournamentID)
	}
	return current, nil
}

// waitForRoundCompletion polls the read model until the round holds zero
// non-finished matches or the retry budget runs out. The poll absorbs the
// lag between a finish command being enqueued and the writer applying it.
func (s *progressionService) waitForRoundCompletion(ctx context.Context, tournamentID int, round string) (int, bool, error) {
	pending := 0
	for attempt := 0; attempt < s.pollAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return pending, false, ctx.Err()
			case <-time.After(s.pollDelay):
			}
		}

		count, err := s.matchRepo.CountUnfinishedByRound(ctx, tournamentID, round)
		if err != nil {
			return 0, false, fmt.Errorf("failed to count unfinished matches of round %s for tournament %d: %w", round, tournamentID, err)
		}
		if count == 0 {
			return 0, true, nil
		}
		pending = count
	}
	return pending, false, nil
}

// intendedMatch is a next-round match whose creation commands were enqueued
// but not necessarily applied yet. The label is the only handle on it.
type intendedMatch struct {
	label string
	pair  brackets.Pair
}

// materializeNextRound enqueues, per pair and in fixed order, one match, two
// participants and two zero scores. Relative order across pairs carries no
// meaning.
func (s *progressionService) materializeNextRound(ctx context.Context, tournamentID int, nextRound string, pairs []brackets.Pair) ([]intendedMatch, error) {
	intended := make([]intendedMatch, 0, len(pairs))
	for i, pair := range pairs {
		label := brackets.MatchLabel(nextRound, i+1)

		err := s.writeQueue.EnqueueAll(ctx,
			queue.CreateMatch{TournamentID: tournamentID, Round: label, Status: models.MatchStatusPending},
			queue.CreateParticipant{TournamentID: tournamentID, Round: label, Slot: models.SlotA, UserID: pair.SlotA.UserID, IsBot: pair.SlotA.IsBot},
			queue.CreateParticipant{TournamentID: tournamentID, Round: label, Slot: models.SlotB, UserID: pair.SlotB.UserID, IsBot: pair.SlotB.IsBot},
			queue.CreateScore{TournamentID: tournamentID, Round: label, Slot: models.SlotA, Points: 0},
			queue.CreateScore{TournamentID: tournamentID, Round: label, Slot: models.SlotB, Points: 0},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to materialize match %s for tournament %d: %w", label, tournamentID, err)
		}

		intended = append(intended, intendedMatch{label: label, pair: pair})
	}

	s.logger.Info("next round materialized",
		slog.Int("tournament_id", tournamentID),
		slog.String("round", nextRound),
		slog.Int("pairs", len(pairs)),
	)
	return intended, nil
}

// provisionMatches asks the matchmaker for a joinable game for every
// human-involving intended match and back-patches the returned identifier.
// Failures are logged and skipped: an unprovisioned match cannot be joined
// yet and is retried by the reconciler.
func (s *progressionService) provisionMatches(ctx context.Context, tournamentID int, intended []intendedMatch) {
	g, gCtx := errgroup.WithContext(ctx)

	for _, im := range intended {
		if !im.pair.HasHuman() {
			continue
		}
		im := im
		g.Go(func() error {
			externalID, err := s.provisioner.CreateRemoteMatch(gCtx, matchmaker.CreateMatchRequest{
				Mode:    "tournament",
				Player1: im.pair.SlotA.DisplayName,
				Player2: im.pair.SlotB.DisplayName,
			})
			if err != nil {
				s.logger.Error("external match provisioning failed",
					slog.Int("tournament_id", tournamentID),
					slog.String("match", im.label),
					slog.Any("error", err),
				)
				return nil
			}

			cmd := queue.SetExternalID{TournamentID: tournamentID, Round: im.label, ExternalID: externalID}
			if err := s.writeQueue.Enqueue(gCtx, cmd); err != nil {
				s.logger.Error("failed to enqueue external id patch",
					slog.Int("tournament_id", tournamentID),
					slog.String("match", im.label),
					slog.Any("error", err),
				)
			}
			return nil
		})
	}

	_ = g.Wait()
}

func (s *progressionService) markTournamentFinished(ctx context.Context, tournamentID int) (*AdvanceResult, error) {
	cmd := queue.SetTournamentStatus{TournamentID: tournamentID, Status: models.TournamentStatusFinished}
	if err := s.writeQueue.Enqueue(ctx, cmd); err != nil {
		return nil, fmt.Errorf("failed to enqueue tournament completion for %d: %w", tournamentID, err)
	}

	if s.archiver != nil {
		if err := s.archiver.ArchiveBracket(ctx, tournamentID); err != nil {
			s.logger.Warn("failed to archive finished bracket",
				slog.Int("tournament_id", tournamentID),
				slog.Any("error", err),
			)
		}
	}

	s.hub.BroadcastToRoom(roomID(tournamentID), brackets.EventTournamentCompleted, map[string]interface{}{
		"tournament_id": tournamentID,
	})

	s.logger.Info("tournament completed", slog.Int("tournament_id", tournamentID))
	return &AdvanceResult{Outcome: OutcomeTournamentCompleted, Round: brackets.FinalRound}, nil
}

func roomID(tournamentID int) string {
	return "tournament_" + strconv.Itoa(tournamentID)
}
