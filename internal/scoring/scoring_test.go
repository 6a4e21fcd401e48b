package scoring

import (
	"fmt"
	"testing"

	"github.com/gridwalk/racesim/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(t *testing.T, n int) []*core.Standing {
	t.Helper()
	out := make([]*core.Standing, n)
	for i := range out {
		p, err := core.NewParticipant(fmt.Sprintf("driver-%02d", i+1), 5)
		require.NoError(t, err)
		out[i] = &core.Standing{
			Participant: p,
			Position:    i + 1,
			Finished:    true,
			Rounds:      3,
		}
	}
	return out
}

func TestPointsForPosition(t *testing.T) {
	tests := []struct {
		pos  int
		want int
	}{
		{0, 0},
		{1, 25},
		{2, 18},
		{3, 15},
		{4, 12},
		{5, 10},
		{6, 8},
		{7, 6},
		{8, 4},
		{9, 2},
		{10, 1},
		{11, 0},
		{-3, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("P%d", tt.pos), func(t *testing.T) {
			assert.Equal(t, tt.want, PointsForPosition(tt.pos))
		})
	}
}

func TestScoreTable(t *testing.T) {
	standings := grid(t, 12)
	points := Score(standings)

	require.Len(t, points, 12)
	want := []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1, 0, 0}
	for i, s := range standings {
		assert.Equal(t, want[i], s.Points, "position %d", i+1)
		assert.Equal(t, want[i], points[s.Participant])
	}
}

func TestScoreUnfinishedGetsNothing(t *testing.T) {
	standings := grid(t, 3)
	standings[1].Finished = false
	standings[1].Rounds = 2

	points := Score(standings)

	assert.Equal(t, 25, points[standings[0].Participant])
	assert.Equal(t, 0, points[standings[1].Participant])
	assert.Equal(t, 15, points[standings[2].Participant])
}

func TestScoreFastestLap(t *testing.T) {
	t.Run("bonus on top of position points", func(t *testing.T) {
		standings := grid(t, 3)
		standings[0].BestTime = 80.5
		standings[1].BestTime = 78.2
		standings[2].BestTime = 81.0

		points := Score(standings)

		assert.Equal(t, 25, points[standings[0].Participant])
		assert.Equal(t, 19, points[standings[1].Participant])
		assert.Equal(t, 15, points[standings[2].Participant])
	})

	t.Run("no bonus outside the top ten", func(t *testing.T) {
		standings := grid(t, 11)
		for _, s := range standings {
			s.BestTime = 90
		}
		standings[10].BestTime = 75

		points := Score(standings)

		assert.Equal(t, 0, points[standings[10].Participant])
		assert.Equal(t, 25, points[standings[0].Participant])
	})

	t.Run("tie goes to the first standing", func(t *testing.T) {
		standings := grid(t, 3)
		standings[0].BestTime = 85
		standings[1].BestTime = 80
		standings[2].BestTime = 80

		points := Score(standings)

		assert.Equal(t, 19, points[standings[1].Participant])
		assert.Equal(t, 15, points[standings[2].Participant])
	})

	t.Run("unfinished top ten still earns the bonus", func(t *testing.T) {
		standings := grid(t, 3)
		standings[2].Finished = false
		standings[2].BestTime = 70

		points := Score(standings)

		assert.Equal(t, 1, points[standings[2].Participant])
	})

	t.Run("slice order wins over stale positions", func(t *testing.T) {
		standings := grid(t, 11)
		for _, s := range standings {
			s.BestTime = 90
		}
		standings[0].BestTime = 75
		standings[0].Position = 11
		standings[10].Position = 1

		points := Score(standings)

		assert.Equal(t, 26, points[standings[0].Participant])
		assert.Equal(t, 0, points[standings[10].Participant])
	})

	t.Run("unset times are ignored", func(t *testing.T) {
		standings := grid(t, 2)
		standings[1].BestTime = 90

		points := Score(standings)

		assert.Equal(t, 25, points[standings[0].Participant])
		assert.Equal(t, 19, points[standings[1].Participant])
	})
}

func TestScoreIsRepeatable(t *testing.T) {
	standings := grid(t, 2)
	standings[0].BestTime = 80

	Score(standings)
	points := Score(standings)

	assert.Equal(t, 26, points[standings[0].Participant])
	assert.Equal(t, 26, standings[0].Points)
}

func TestScoreEmpty(t *testing.T) {
	assert.Empty(t, Score(nil))
}
