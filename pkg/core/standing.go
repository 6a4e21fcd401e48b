package core

import "fmt"

// Standing is a participant's record within one race. BestTime 0 means no
// round time has been recorded yet.
type Standing struct {
	Participant *Participant
	Position    int
	BestTime    float64
	Points      int
	Finished    bool
	Rounds      int
}

// HasTime reports whether a best time has been recorded.
func (s Standing) HasTime() bool {
	return s.BestTime > 0
}

func (s Standing) String() string {
	name := "<none>"
	if s.Participant != nil {
		name = s.Participant.Name()
	}
	return fmt.Sprintf("P%d. %s - %d points (Laps: %d, Best: %.2fs)",
		s.Position, name, s.Points, s.Rounds, s.BestTime)
}
