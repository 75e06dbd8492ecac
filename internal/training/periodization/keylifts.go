package periodization

import (
	"sort"

	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/internal/training/program"
)

// DefaultKeyLiftCount is how many top-volume exercises get summarized
// when the caller does not ask for a specific count.
const DefaultKeyLiftCount = 5

// KeyLiftSummary compares one of the week's highest-volume exercises
// against the previous week. ChangePercent is nil when either side has
// no tracked load or the previous average is zero.
type KeyLiftSummary struct {
	ExerciseID      string   `json:"exerciseId"`
	ExerciseName    string   `json:"exerciseName,omitempty"`
	PreviousAvgLoad *float64 `json:"previousAvgLoad"`
	CurrentAvgLoad  *float64 `json:"currentAvgLoad"`
	ChangePercent   *float64 `json:"changePercent"`
	TotalVolume     float64  `json:"totalVolume"`
	SetCount        int      `json:"setCount"`
	AvgRpe          *float64 `json:"avgRpe"`
}

// SummarizeKeyLifts ranks the current week's exercises by total volume and
// reports the week-over-week load change for the top topN of them. Exercises
// with equal volume keep their plan order (the sort is stable).
func SummarizeKeyLifts(
	current program.Week,
	previous *program.Week,
	entries []history.Entry,
	topN int,
) []KeyLiftSummary {
	if topN <= 0 {
		topN = DefaultKeyLiftCount
	}

	currentLoads := ActualLoadsForWeek(entries, current)

	previousLoads := make(map[string]ActualExerciseLoad)
	if previous != nil {
		for _, load := range ActualLoadsForWeek(entries, *previous) {
			previousLoads[load.ExerciseID] = load
		}
	}

	currentWeekEntries := entriesInWeek(entries, current)

	summaries := make([]KeyLiftSummary, 0, len(currentLoads))
	for _, load := range currentLoads {
		summary := KeyLiftSummary{
			ExerciseID:     load.ExerciseID,
			ExerciseName:   load.ExerciseName,
			CurrentAvgLoad: load.AverageLoad,
			TotalVolume:    load.TotalVolume,
			SetCount:       load.SetCount,
			AvgRpe:         exerciseAverageRpe(currentWeekEntries, load.ExerciseID),
		}

		if prevLoad, ok := previousLoads[load.ExerciseID]; ok {
			summary.PreviousAvgLoad = prevLoad.AverageLoad
		}

		if summary.CurrentAvgLoad != nil && summary.PreviousAvgLoad != nil && *summary.PreviousAvgLoad > 0 {
			change := (*summary.CurrentAvgLoad - *summary.PreviousAvgLoad) / *summary.PreviousAvgLoad * 100
			summary.ChangePercent = &change
		}

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalVolume > summaries[j].TotalVolume
	})

	if len(summaries) > topN {
		summaries = summaries[:topN]
	}

	return summaries
}

func exerciseAverageRpe(weekEntries []history.Entry, exerciseID string) *float64 {
	rpeSum := 0.0
	rpeCount := 0
	for _, entry := range weekEntries {
		for _, exLog := range entry.Exercises {
			if exLog.ExerciseID != exerciseID {
				continue
			}
			for _, set := range exLog.Sets {
				if set.Status != history.SetStatusCompleted || set.Rpe == nil {
					continue
				}
				rpeSum += *set.Rpe
				rpeCount++
			}
		}
	}
	if rpeCount == 0 {
		return nil
	}
	avg := rpeSum / float64(rpeCount)
	return &avg
}
