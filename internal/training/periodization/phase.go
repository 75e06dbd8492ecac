package periodization

import (
	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/internal/training/program"
)

const (
	// phaseLookbackWeeks is how many consecutive build weeks must sustain
	// a high volume trend before a deload gets scheduled.
	phaseLookbackWeeks = 3

	// volumeTrendTolerance: a week still counts as "sustained volume" when
	// it reaches at least this fraction of the previous week's volume.
	volumeTrendTolerance = 0.95
)

// DecideNextPhase decides whether the NEXT week should be a build or a
// deload week. recentWeeks are the most recent program weeks ordered oldest
// to newest, including the week currently being evaluated. A deload gets
// scheduled only after three consecutive build weeks of sustained volume,
// any prior deload resets the count. With less data the answer is always
// build.
func DecideNextPhase(recentWeeks []program.Week, entries []history.Entry) program.Phase {
	if len(recentWeeks) < phaseLookbackWeeks {
		return program.PhaseBuild
	}

	lookback := recentWeeks[len(recentWeeks)-phaseLookbackWeeks:]
	for _, week := range lookback {
		if week.Phase != program.PhaseBuild {
			return program.PhaseBuild
		}
	}

	vol1 := WeekTotalVolume(entries, lookback[0])
	vol2 := WeekTotalVolume(entries, lookback[1])
	vol3 := WeekTotalVolume(entries, lookback[2])

	highVolumeTrend := vol1 > 0 &&
		vol2 >= volumeTrendTolerance*vol1 &&
		vol3 >= volumeTrendTolerance*vol2

	if highVolumeTrend {
		return program.PhaseDeload
	}
	return program.PhaseBuild
}
