// Package scoring awards championship points to a finished race's
// classification.
package scoring

import "github.com/gridwalk/racesim/pkg/core"

// FastestLapBonus is added to the holder of the fastest lap when they are
// classified in the top ten, finished or not.
const FastestLapBonus = 1

var positionPoints = []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// PointsForPosition returns the points for a 1-based finishing position.
func PointsForPosition(pos int) int {
	if pos < 1 || pos > len(positionPoints) {
		return 0
	}
	return positionPoints[pos-1]
}

// Score assigns points to standings ordered by position and writes them to
// Standing.Points. Only finished standings earn position points. Every
// participant appears in the returned map.
func Score(standings []*core.Standing) map[*core.Participant]int {
	points := make(map[*core.Participant]int, len(standings))

	fastest := -1
	for i, s := range standings {
		s.Points = 0
		if s.Finished {
			s.Points = PointsForPosition(i + 1)
		}
		if s.HasTime() && (fastest < 0 || s.BestTime < standings[fastest].BestTime) {
			fastest = i
		}
	}

	// Positions come from slice order, not the Position fields.
	if fastest >= 0 && fastest < len(positionPoints) {
		standings[fastest].Points += FastestLapBonus
	}

	for _, s := range standings {
		if s.Participant != nil {
			points[s.Participant] += s.Points
		}
	}
	return points
}
