package periodization

import (
	"fmt"

	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/internal/training/program"
)

// WeeklyStressMetrics describes the training stress of one week.
// VolumeChangePercent is nil without a previous week or with zero previous
// volume, AvgRpe is nil when no completed set carries an RPE value.
type WeeklyStressMetrics struct {
	TotalVolume         float64  `json:"totalVolume"`
	VolumeChangePercent *float64 `json:"volumeChangePercent"`
	AvgRpe              *float64 `json:"avgRpe"`
	Label               string   `json:"label"`
}

// CalculateWeeklyStress derives the volume trend and average perceived
// effort for the current week, optionally compared against a previous week.
func CalculateWeeklyStress(current program.Week, previous *program.Week, entries []history.Entry) WeeklyStressMetrics {
	metrics := WeeklyStressMetrics{
		TotalVolume: WeekTotalVolume(entries, current),
	}

	if previous != nil {
		previousVolume := WeekTotalVolume(entries, *previous)
		if previousVolume > 0 {
			change := (metrics.TotalVolume - previousVolume) / previousVolume * 100
			metrics.VolumeChangePercent = &change
		}
	}

	metrics.AvgRpe = averageRpe(entriesInWeek(entries, current))
	metrics.Label = stressLabel(metrics)

	return metrics
}

// averageRpe is the mean RPE across completed sets with a defined RPE,
// nil when there are none.
func averageRpe(entries []history.Entry) *float64 {
	rpeSum := 0.0
	rpeCount := 0
	for _, entry := range entries {
		for _, exLog := range entry.Exercises {
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

// stressLabel picks the composite label, most informative input combination
// first. Order matters, the branches are not independent.
func stressLabel(metrics WeeklyStressMetrics) string {
	change, rpe := metrics.VolumeChangePercent, metrics.AvgRpe

	switch {
	case metrics.TotalVolume == 0:
		return "No completed training recorded for this week."
	case change != nil && rpe != nil:
		switch {
		case *rpe >= 8.5 && *change > 0:
			return fmt.Sprintf(
				"High stress week: volume up %.1f%% at an average RPE of %.1f. Prioritize sleep and recovery.",
				*change, *rpe,
			)
		case *rpe >= 7 && *rpe < 8.5:
			return fmt.Sprintf(
				"Good training stress: average RPE %.1f with a volume change of %.1f%%.",
				*rpe, *change,
			)
		case *rpe < 7:
			return fmt.Sprintf(
				"Manageable training stress: average RPE %.1f with a volume change of %.1f%%.",
				*rpe, *change,
			)
		default:
			return fmt.Sprintf(
				"Average RPE %.1f with a volume change of %.1f%%.",
				*rpe, *change,
			)
		}
	case change != nil:
		return fmt.Sprintf("Training volume changed by %.1f%% compared to the previous week.", *change)
	case rpe != nil:
		return fmt.Sprintf("Average RPE for this week: %.1f.", *rpe)
	default:
		return ""
	}
}
