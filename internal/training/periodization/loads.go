// Package periodization holds the periodization and progression engine:
// pure, deterministic computations that turn a program snapshot and a
// workout history snapshot into weekly metrics, phase and block decisions
// and coaching recommendations. Nothing in this package performs I/O or
// keeps state, callers load the snapshots and persist the results.
package periodization

import (
	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/internal/training/program"
)

// ActualExerciseLoad is what actually happened for one exercise within one
// program week. AverageLoad and TopSetLoad stay nil for exercises trained
// without a tracked load (bodyweight work), while SetCount still reports
// the completed sets, so "not attempted" and "attempted without a load"
// remain distinguishable.
type ActualExerciseLoad struct {
	ExerciseID   string   `json:"exerciseId"`
	ExerciseName string   `json:"exerciseName,omitempty"`
	AverageLoad  *float64 `json:"averageLoad"`
	TopSetLoad   *float64 `json:"topSetLoad"`
	TotalVolume  float64  `json:"totalVolume"`
	SetCount     int      `json:"setCount"`
}

// ActualLoadsForWeek reduces the raw history into per-exercise performance
// facts for the given week: one record per exercise appearing in the week's
// days, deduplicated by exercise ID, in plan order.
func ActualLoadsForWeek(entries []history.Entry, week program.Week) []ActualExerciseLoad {
	weekEntries := entriesInWeek(entries, week)

	loads := make([]ActualExerciseLoad, 0)
	seen := make(map[string]bool)
	for _, day := range week.Days {
		for _, exercise := range day.Exercises {
			if seen[exercise.ID] {
				continue
			}
			seen[exercise.ID] = true
			loads = append(loads, actualLoadForExercise(weekEntries, exercise))
		}
	}

	return loads
}

func actualLoadForExercise(weekEntries []history.Entry, exercise program.Exercise) ActualExerciseLoad {
	load := ActualExerciseLoad{
		ExerciseID:   exercise.ID,
		ExerciseName: exercise.Name,
	}

	var completedSets []history.SetLog
	for _, entry := range weekEntries {
		for _, exLog := range entry.Exercises {
			if exLog.ExerciseID != exercise.ID {
				continue
			}
			for _, set := range exLog.Sets {
				if set.Status == history.SetStatusCompleted {
					completedSets = append(completedSets, set)
				}
			}
		}
	}

	load.SetCount = len(completedSets)

	loadSum, topSet := 0.0, 0.0
	loadSetCount := 0
	for _, set := range completedSets {
		if set.Load == nil {
			continue
		}
		loadSetCount++
		loadSum += *set.Load
		if *set.Load > topSet {
			topSet = *set.Load
		}
	}

	if loadSetCount == 0 {
		// attempted without a tracked load, or not attempted at all
		return load
	}

	avg := loadSum / float64(loadSetCount)
	load.AverageLoad = &avg
	load.TopSetLoad = &topSet

	// missing reps or load degrade to a zero contribution, never to an error
	for _, set := range completedSets {
		if set.Load == nil || set.Reps == nil {
			continue
		}
		load.TotalVolume += float64(*set.Reps) * *set.Load
	}

	return load
}

// entriesInWeek filters history entries whose completion timestamp falls
// into the week window [startDate, startDate+7days).
func entriesInWeek(entries []history.Entry, week program.Week) []history.Entry {
	var weekEntries []history.Entry
	for _, entry := range entries {
		if week.WindowContains(entry.CompletedAt) {
			weekEntries = append(weekEntries, entry)
		}
	}
	return weekEntries
}

// WeekTotalVolume sums the per-exercise volumes of a week.
func WeekTotalVolume(entries []history.Entry, week program.Week) float64 {
	total := 0.0
	for _, load := range ActualLoadsForWeek(entries, week) {
		total += load.TotalVolume
	}
	return total
}
