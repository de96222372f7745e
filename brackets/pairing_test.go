package brackets

import (
	"testing"

	"github.com/jverdu-r/42-transcendence-sub000/models"
)

func intPtr(v int) *int { return &v }

func winner(participantID, matchID int, userID *int, name string) models.RoundWinner {
	return models.RoundWinner{
		ParticipantID: participantID,
		MatchID:       matchID,
		UserID:        userID,
		IsBot:         userID == nil,
		DisplayName:   name,
	}
}

func TestResolvePairingsEvenCount(t *testing.T) {
	winners := []models.RoundWinner{
		winner(10, 1, intPtr(100), "alice"),
		winner(20, 2, intPtr(200), "bob"),
		winner(30, 3, intPtr(300), "carol"),
		winner(40, 4, intPtr(400), "dave"),
	}

	result := ResolvePairings(winners)

	if len(result.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(result.Pairs))
	}
	if len(result.Byes) != 0 {
		t.Fatalf("expected no byes, got %d", len(result.Byes))
	}
	if result.Pairs[0].SlotA.DisplayName != "alice" || result.Pairs[0].SlotB.DisplayName != "bob" {
		t.Fatalf("unexpected first pair: %q vs %q", result.Pairs[0].SlotA.DisplayName, result.Pairs[0].SlotB.DisplayName)
	}
	if result.Pairs[1].SlotA.DisplayName != "carol" || result.Pairs[1].SlotB.DisplayName != "dave" {
		t.Fatalf("unexpected second pair: %q vs %q", result.Pairs[1].SlotA.DisplayName, result.Pairs[1].SlotB.DisplayName)
	}
}

func TestResolvePairingsOddCountProducesOneBye(t *testing.T) {
	winners := []models.RoundWinner{
		winner(10, 1, intPtr(100), "alice"),
		winner(20, 2, intPtr(200), "bob"),
		winner(30, 3, intPtr(300), "carol"),
	}

	result := ResolvePairings(winners)

	if len(result.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(result.Pairs))
	}
	if len(result.Byes) != 1 {
		t.Fatalf("expected 1 bye, got %d", len(result.Byes))
	}
	if result.Byes[0].DisplayName != "carol" {
		t.Fatalf("expected the last winner to carry the bye, got %q", result.Byes[0].DisplayName)
	}
}

func TestResolvePairingsSortsByMatchThenParticipant(t *testing.T) {
	// Deliberately shuffled input: the resolver must re-order by
	// (match id, participant id) before walking.
	winners := []models.RoundWinner{
		winner(40, 4, intPtr(400), "dave"),
		winner(10, 1, intPtr(100), "alice"),
		winner(30, 3, intPtr(300), "carol"),
		winner(20, 2, intPtr(200), "bob"),
	}

	result := ResolvePairings(winners)

	if result.Pairs[0].SlotA.ParticipantID != 10 || result.Pairs[0].SlotB.ParticipantID != 20 {
		t.Fatalf("expected pair (10,20), got (%d,%d)", result.Pairs[0].SlotA.ParticipantID, result.Pairs[0].SlotB.ParticipantID)
	}
	if result.Pairs[1].SlotA.ParticipantID != 30 || result.Pairs[1].SlotB.ParticipantID != 40 {
		t.Fatalf("expected pair (30,40), got (%d,%d)", result.Pairs[1].SlotA.ParticipantID, result.Pairs[1].SlotB.ParticipantID)
	}
}

func TestResolvePairingsIsDeterministic(t *testing.T) {
	winners := []models.RoundWinner{
		winner(20, 2, intPtr(200), "bob"),
		winner(10, 1, intPtr(100), "alice"),
		winner(40, 4, nil, "bot"),
		winner(30, 3, intPtr(300), "carol"),
		winner(50, 5, intPtr(500), "erin"),
	}

	first := ResolvePairings(winners)
	second := ResolvePairings(winners)

	if len(first.Pairs) != len(second.Pairs) {
		t.Fatalf("pair counts differ: %d vs %d", len(first.Pairs), len(second.Pairs))
	}
	for i := range first.Pairs {
		if first.Pairs[i].SlotA.ParticipantID != second.Pairs[i].SlotA.ParticipantID ||
			first.Pairs[i].SlotB.ParticipantID != second.Pairs[i].SlotB.ParticipantID {
			t.Fatalf("pair %d differs between invocations", i)
		}
	}
	if len(first.Byes) != 1 || len(second.Byes) != 1 || first.Byes[0].ParticipantID != second.Byes[0].ParticipantID {
		t.Fatal("bye assignment differs between invocations")
	}
}

func TestResolvePairingsDoesNotMutateInput(t *testing.T) {
	winners := []models.RoundWinner{
		winner(20, 2, intPtr(200), "bob"),
		winner(10, 1, intPtr(100), "alice"),
	}

	ResolvePairings(winners)

	if winners[0].ParticipantID != 20 {
		t.Fatal("resolver mutated its input slice")
	}
}

func TestPairHasHuman(t *testing.T) {
	human := winner(1, 1, intPtr(100), "alice")
	bot := winner(2, 1, nil, "bot")

	cases := []struct {
		name string
		pair Pair
		want bool
	}{
		{"human vs human", Pair{SlotA: human, SlotB: human}, true},
		{"human vs bot", Pair{SlotA: human, SlotB: bot}, true},
		{"bot vs human", Pair{SlotA: bot, SlotB: human}, true},
		{"bot vs bot", Pair{SlotA: bot, SlotB: bot}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.pair.HasHuman(); got != tc.want {
				t.Fatalf("HasHuman() = %v, want %v", got, tc.want)
			}
		})
	}
}
