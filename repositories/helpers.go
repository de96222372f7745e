package repositories

import (
	"strconv"

	"github.com/jverdu-r/42-transcendence-sub000/brackets"
)

// roundPredicate returns the SQL fragment matching stored round labels
// against a round of the fixed sequence, with the label bound at placeholder
// position idx. The final is stored bare and matched exactly; numbered
// rounds carry a pairing suffix and are matched by prefix.
func roundPredicate(column string, idx int) string {
	p := "$" + strconv.Itoa(idx)
	return "(" + column + " = " + p + " OR (" + p + " <> '" + brackets.FinalRound + "' AND " + column + " LIKE " + p + " || '-%'))"
}
