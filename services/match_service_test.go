package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jverdu-r/42-transcendence-sub000/models"
	"github.com/jverdu-r/42-transcendence-sub000/queue"
	"github.com/jverdu-r/42-transcendence-sub000/repositories"
)

type fakeProgression struct {
	calls  []int
	result *AdvanceResult
	err    error
}

func (f *fakeProgression) AdvanceTournament(ctx context.Context, tournamentID int) (*AdvanceResult, error) {
	f.calls = append(f.calls, tournamentID)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func pendingMatch(id int, tournamentID *int) *models.Match {
	return &models.Match{ID: id, TournamentID: tournamentID, Round: "1/2-1", Status: models.MatchStatusPending}
}

func twoParticipants(matchID int) []models.Participant {
	return []models.Participant{
		{ID: 11, MatchID: matchID, UserID: intPtr(100), Slot: models.SlotA, DisplayName: "alice"},
		{ID: 12, MatchID: matchID, UserID: intPtr(200), Slot: models.SlotB, DisplayName: "bob"},
	}
}

func TestFinishMatchRecordsResultAndAdvances(t *testing.T) {
	matchRepo := &fakeMatchRepo{getByID: func(ctx context.Context, id int) (*models.Match, error) {
		return pendingMatch(id, intPtr(7)), nil
	}}
	participantRepo := &fakeParticipantRepo{listByMatch: func(ctx context.Context, matchID int) ([]models.Participant, error) {
		return twoParticipants(matchID), nil
	}}
	wq := &fakeQueue{}
	progression := &fakeProgression{result: &AdvanceResult{Outcome: OutcomeNextRoundCreated, Round: "Final"}}
	hub := &fakeHub{}

	svc := NewMatchService(matchRepo, participantRepo, wq, progression, hub, testLogger())
	result, err := svc.FinishMatch(context.Background(), 5, FinishMatchInput{WinnerSlot: models.SlotB, ScoreA: 7, ScoreB: 11})
	if err != nil {
		t.Fatalf("FinishMatch: %v", err)
	}

	commands := wq.recorded()
	if len(commands) != 4 {
		t.Fatalf("commands = %d, want 4", len(commands))
	}
	if _, ok := commands[0].(queue.SetScore); !ok {
		t.Fatalf("first command is %T, want SetScore", commands[0])
	}
	winner, ok := commands[2].(queue.SetWinner)
	if !ok || winner.ParticipantID != 12 {
		t.Fatalf("unexpected winner command: %+v", commands[2])
	}
	status, ok := commands[3].(queue.SetMatchStatus)
	if !ok || status.Status != models.MatchStatusFinished {
		t.Fatalf("unexpected status command: %+v", commands[3])
	}

	if len(progression.calls) != 1 || progression.calls[0] != 7 {
		t.Fatalf("advance calls = %v, want [7]", progression.calls)
	}
	if result.Advance == nil || result.Advance.Outcome != OutcomeNextRoundCreated {
		t.Fatalf("unexpected advance result: %+v", result.Advance)
	}

	events := hub.recorded()
	if len(events) != 1 || events[0].eventType != "MATCH_FINISHED" || events[0].roomID != "tournament_7" {
		t.Fatalf("unexpected broadcasts: %+v", events)
	}
}

func TestFinishMatchCasualGameSkipsAdvance(t *testing.T) {
	matchRepo := &fakeMatchRepo{getByID: func(ctx context.Context, id int) (*models.Match, error) {
		return pendingMatch(id, nil), nil
	}}
	participantRepo := &fakeParticipantRepo{listByMatch: func(ctx context.Context, matchID int) ([]models.Participant, error) {
		return twoParticipants(matchID), nil
	}}
	wq := &fakeQueue{}
	progression := &fakeProgression{}
	hub := &fakeHub{}

	svc := NewMatchService(matchRepo, participantRepo, wq, progression, hub, testLogger())
	result, err := svc.FinishMatch(context.Background(), 5, FinishMatchInput{WinnerSlot: models.SlotA, ScoreA: 11, ScoreB: 3})
	if err != nil {
		t.Fatalf("FinishMatch: %v", err)
	}

	if result.Advance != nil {
		t.Fatal("a casual match must not trigger the advance workflow")
	}
	if len(progression.calls) != 0 {
		t.Fatalf("advance calls = %v, want none", progression.calls)
	}
	if len(hub.recorded()) != 0 {
		t.Fatal("a casual match must not broadcast tournament events")
	}
	if len(wq.recorded()) != 4 {
		t.Fatalf("commands = %d, want 4", len(wq.recorded()))
	}
}

func TestFinishMatchRejectsInvalidSlot(t *testing.T) {
	svc := NewMatchService(&fakeMatchRepo{}, &fakeParticipantRepo{}, &fakeQueue{}, &fakeProgression{}, &fakeHub{}, testLogger())

	_, err := svc.FinishMatch(context.Background(), 5, FinishMatchInput{WinnerSlot: "C"})
	if !errors.Is(err, ErrInvalidWinnerSlot) {
		t.Fatalf("err = %v, want ErrInvalidWinnerSlot", err)
	}
}

func TestFinishMatchRejectsAlreadyFinished(t *testing.T) {
	matchRepo := &fakeMatchRepo{getByID: func(ctx context.Context, id int) (*models.Match, error) {
		m := pendingMatch(id, intPtr(7))
		m.Status = models.MatchStatusFinished
		return m, nil
	}}
	wq := &fakeQueue{}

	svc := NewMatchService(matchRepo, &fakeParticipantRepo{}, wq, &fakeProgression{}, &fakeHub{}, testLogger())
	_, err := svc.FinishMatch(context.Background(), 5, FinishMatchInput{WinnerSlot: models.SlotA})
	if !errors.Is(err, ErrMatchNotStartable) {
		t.Fatalf("err = %v, want ErrMatchNotStartable", err)
	}
	if len(wq.recorded()) != 0 {
		t.Fatal("a finished match must not produce commands")
	}
}

func TestFinishMatchUnknownMatch(t *testing.T) {
	matchRepo := &fakeMatchRepo{getByID: func(ctx context.Context, id int) (*models.Match, error) {
		return nil, repositories.ErrMatchNotFound
	}}

	svc := NewMatchService(matchRepo, &fakeParticipantRepo{}, &fakeQueue{}, &fakeProgression{}, &fakeHub{}, testLogger())
	_, err := svc.FinishMatch(context.Background(), 99, FinishMatchInput{WinnerSlot: models.SlotA})
	if !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("err = %v, want ErrMatchNotFound", err)
	}
}

func TestFinishMatchSurfacesAdvanceFailure(t *testing.T) {
	matchRepo := &fakeMatchRepo{getByID: func(ctx context.Context, id int) (*models.Match, error) {
		return pendingMatch(id, intPtr(7)), nil
	}}
	participantRepo := &fakeParticipantRepo{listByMatch: func(ctx context.Context, matchID int) ([]models.Participant, error) {
		return twoParticipants(matchID), nil
	}}
	wq := &fakeQueue{}
	progression := &fakeProgression{err: ErrNoWinnersFound}

	svc := NewMatchService(matchRepo, participantRepo, wq, progression, &fakeHub{}, testLogger())
	_, err := svc.FinishMatch(context.Background(), 5, FinishMatchInput{WinnerSlot: models.SlotA})
	if !errors.Is(err, ErrNoWinnersFound) {
		t.Fatalf("err = %v, want the advance failure", err)
	}
	// The finish commands were enqueued before the advance ran.
	if len(wq.recorded()) != 4 {
		t.Fatalf("commands = %d, want 4", len(wq.recorded()))
	}
}
