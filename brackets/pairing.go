package brackets

import (
	"sort"

	"github.com/jverdu-r/42-transcendence-sub000/models"
)

// Pair assigns two round winners to the slots of a next-round match.
type Pair struct {
	SlotA models.RoundWinner
	SlotB models.RoundWinner
}

// PairingResult is the output of ResolvePairings. Byes are winners left
// unpaired by an odd-sized round; no match is created for them here, they
// are surfaced to the caller to be folded into a later pairing pass.
type PairingResult struct {
	Pairs []Pair
	Byes  []models.RoundWinner
}

// ResolvePairings walks the winners list two at a time: the first of each
// consecutive pair takes slot A, the second slot B. The input is re-sorted
// by originating match id, then participant id, so repeated invocations over
// the same winners always produce identical assignments.
func ResolvePairings(winners []models.RoundWinner) PairingResult {
	ordered := make([]models.RoundWinner, len(winners))
	copy(ordered, winners)

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].MatchID != ordered[j].MatchID {
			return ordered[i].MatchID < ordered[j].MatchID
		}
		return ordered[i].ParticipantID < ordered[j].ParticipantID
	})

	result := PairingResult{
		Pairs: make([]Pair, 0, len(ordered)/2),
	}
	for i := 0; i+1 < len(ordered); i += 2 {
		result.Pairs = append(result.Pairs, Pair{
			SlotA: ordered[i],
			SlotB: ordered[i+1],
		})
	}
	if len(ordered)%2 != 0 {
		result.Byes = append(result.Byes, ordered[len(ordered)-1])
	}
	return result
}

// HasHuman reports whether at least one slot of the pair is played by a
// human. Bot-vs-bot pairs are resolved locally and never provisioned with
// the matchmaker.
func (p Pair) HasHuman() bool {
	return !p.SlotA.IsBot || !p.SlotB.IsBot
}
