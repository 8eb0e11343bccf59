// Package keeper implements the league's keeper-round stacking and
// cap/fee math. Everything here is pure: inputs are copied, outputs are
// fresh values, and nothing touches storage.
package keeper

import (
	"sort"

	"github.com/dynastyhoops/capkeeper/internal/models"
)

const (
	// FirstRound and LastRound bound the keeper draft.
	FirstRound = 1
	LastRound  = 14
)

// Stack assigns a unique keeper round to every KEEP entry with a base round
// and returns the annotated copy plus the franchise-tag count.
//
// Precedence: the first Round-1 keeper in input order takes Round 1 for
// free. All remaining keepers with base rounds 2..14 are then resolved in
// ascending base-round order (stable on input order within a shared base
// round), each taking the first unoccupied round at or beyond its base
// round, scanning toward Round 14. Only after that do the franchise-tagged
// extra Round-1 keepers claim slots, scanning from Round 2. A Round-2
// keeper can therefore never be bumped behind a tagged Round-1 keeper.
//
// Entries with any other decision, or with no base round, never
// participate and always come back with KeeperRound cleared.
func Stack(entries []models.RosterEntry) ([]models.RosterEntry, int) {
	out := make([]models.RosterEntry, len(entries))
	copy(out, entries)

	for i := range out {
		out[i].KeeperRound = 0
		out[i].NeedsReview = false
	}

	var roundOne, later []int
	for i, e := range out {
		if e.Decision != models.DecisionKeep || e.BaseRound < FirstRound || e.BaseRound > LastRound {
			continue
		}
		if e.BaseRound == FirstRound {
			roundOne = append(roundOne, i)
		} else {
			later = append(later, i)
		}
	}

	taken := make(map[int]bool, LastRound)

	var displaced []int
	franchiseTags := 0
	if len(roundOne) > 0 {
		out[roundOne[0]].KeeperRound = FirstRound
		taken[FirstRound] = true
		displaced = roundOne[1:]
		franchiseTags = len(displaced)
	}

	sort.SliceStable(later, func(a, b int) bool {
		return out[later[a]].BaseRound < out[later[b]].BaseRound
	})
	for _, i := range later {
		claim(&out[i], out[i].BaseRound, taken)
	}

	for _, i := range displaced {
		claim(&out[i], FirstRound+1, taken)
	}

	return out, franchiseTags
}

// claim takes the first free round at or after from. When every round
// through LastRound is occupied the entry is pinned to LastRound and
// flagged for admin review; under the league's 8-keeper cap this cannot
// happen in practice.
func claim(e *models.RosterEntry, from int, taken map[int]bool) {
	for r := from; r <= LastRound; r++ {
		if !taken[r] {
			taken[r] = true
			e.KeeperRound = r
			return
		}
	}
	e.KeeperRound = LastRound
	e.NeedsReview = true
}
