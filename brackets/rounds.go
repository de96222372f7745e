package brackets

import (
	"fmt"
	"strings"
)

// FinalRound is the terminal label of the sequence. It never carries a
// pairing suffix: there is exactly one final.
const FinalRound = "Final"

// RoundSequence is the fixed, ordered list of elimination rounds. Matches of
// numbered rounds are labeled with a pairing suffix ("1/4-1", "1/4-2");
// detection therefore matches numbered rounds by prefix and the final
// exactly.
var RoundSequence = []string{"1/16", "1/8", "1/4", "1/2", FinalRound}

// RoundIndex returns the position of a round label within the sequence.
func RoundIndex(round string) (int, bool) {
	for i, r := range RoundSequence {
		if r == round {
			return i, true
		}
	}
	return 0, false
}

// NextRound returns the label following round, or false when round is the
// terminal label (or unknown).
func NextRound(round string) (string, bool) {
	idx, ok := RoundIndex(round)
	if !ok || idx == len(RoundSequence)-1 {
		return "", false
	}
	return RoundSequence[idx+1], true
}

// IsFinalRound reports whether round is the terminal label.
func IsFinalRound(round string) bool {
	return round == FinalRound
}

// MatchLabel builds the stored round label for the n-th pairing (1-based) of
// a round. The final is labeled bare.
func MatchLabel(round string, pairIndex int) string {
	if round == FinalRound {
		return FinalRound
	}
	return fmt.Sprintf("%s-%d", round, pairIndex)
}

// BaseRound strips a pairing suffix, mapping "1/4-2" back to "1/4".
func BaseRound(label string) string {
	if i := strings.IndexByte(label, '-'); i >= 0 {
		return label[:i]
	}
	return label
}
