package race

import (
	"cmp"
	"slices"

	"github.com/gridwalk/racesim/pkg/core"
)

// compareStandings orders by rounds completed (more first), then best time
// (faster first). A standing without a time sorts after any standing with one.
func compareStandings(a, b *core.Standing) int {
	if a.Rounds != b.Rounds {
		return cmp.Compare(b.Rounds, a.Rounds)
	}
	switch {
	case !a.HasTime() && !b.HasTime():
		return 0
	case !a.HasTime():
		return 1
	case !b.HasTime():
		return -1
	}
	return cmp.Compare(a.BestTime, b.BestTime)
}

// Order stably sorts standings and reassigns 1-based positions.
func Order(standings []*core.Standing) {
	slices.SortStableFunc(standings, compareStandings)
	for i, s := range standings {
		s.Position = i + 1
	}
}
