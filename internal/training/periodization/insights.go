package periodization

import (
	"fmt"
	"math"
	"sort"

	"github.com/2beens/traincoach/internal/training/program"
)

// Severity buckets coach insights for display. Lower rank means shown first.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeveritySuccess  Severity = "success"
	SeverityInfo     Severity = "info"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeveritySuccess:
		return 2
	case SeverityInfo:
		return 3
	default:
		return 4
	}
}

type CoachInsight struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// InsightParams is everything the insight engine looks at for one week.
type InsightParams struct {
	WeekNumber int
	Phase      program.Phase
	Adherence  WeeklyAdherenceMetrics
	Stress     WeeklyStressMetrics
	KeyLifts   []KeyLiftSummary
}

// GenerateCoachInsights converts one week's metrics into short coaching
// messages. Unlike the block recommendation, the checks are independent,
// several insights may fire for the same week. The result is unordered,
// use SortInsightsByPriority for display.
func GenerateCoachInsights(params InsightParams) []CoachInsight {
	insights := make([]CoachInsight, 0)

	insights = appendAdherenceInsight(insights, params.Adherence)

	if params.Phase == program.PhaseDeload {
		insights = append(insights, CoachInsight{
			Severity: SeverityInfo,
			Title:    "Deload week",
			Message:  "This is a recovery week: reduced load and volume are intentional. Let the body adapt.",
		})
	}

	insights = appendStressInsight(insights, params.Phase, params.Stress)
	insights = appendKeyLiftInsights(insights, params.Phase, params.KeyLifts)

	if params.WeekNumber == 1 && params.Adherence.CompletedSessions > 0 {
		insights = append(insights, CoachInsight{
			Severity: SeveritySuccess,
			Title:    "Strong start",
			Message: fmt.Sprintf(
				"First week in the books with %d logged sessions. Great start!",
				params.Adherence.CompletedSessions,
			),
		})
	}

	return insights
}

func appendAdherenceInsight(insights []CoachInsight, adherence WeeklyAdherenceMetrics) []CoachInsight {
	switch {
	case adherence.SessionAdherence >= 0.9:
		return append(insights, CoachInsight{
			Severity: SeveritySuccess,
			Title:    "Great consistency",
			Message: fmt.Sprintf(
				"You completed %d of %d planned sessions this week. Keep it up!",
				adherence.CompletedSessions, adherence.PlannedSessions,
			),
		})
	case adherence.SessionAdherence < 0.7 && adherence.PlannedSessions > 0:
		return append(insights, CoachInsight{
			Severity: SeverityWarning,
			Title:    "Sessions below target",
			Message: fmt.Sprintf(
				"Only %d of %d planned sessions completed. Try to protect your training slots next week.",
				adherence.CompletedSessions, adherence.PlannedSessions,
			),
		})
	default:
		return insights
	}
}

// appendStressInsight picks at most one stress insight. The buckets are
// mutually exclusive and checked in this order, first match wins.
func appendStressInsight(insights []CoachInsight, phase program.Phase, stress WeeklyStressMetrics) []CoachInsight {
	change, rpe := stress.VolumeChangePercent, stress.AvgRpe
	if change == nil || rpe == nil {
		return insights
	}

	switch {
	case *change > 10 && *rpe >= 8.5:
		return append(insights, CoachInsight{
			Severity: SeverityCritical,
			Title:    "High stress warning",
			Message: fmt.Sprintf(
				"Volume up %.0f%% with an average RPE of %.1f. Back off intensity or volume to avoid overreaching.",
				*change, *rpe,
			),
		})
	case *change > 10 && *rpe >= 7 && *rpe < 8.5:
		return append(insights, CoachInsight{
			Severity: SeverityWarning,
			Title:    "Stress is climbing",
			Message: fmt.Sprintf(
				"Volume up %.0f%% at RPE %.1f. Sustainable for now, keep an eye on recovery.",
				*change, *rpe,
			),
		})
	case math.Abs(*change) <= 10 && *rpe >= 6.5 && *rpe <= 8:
		return append(insights, CoachInsight{
			Severity: SeveritySuccess,
			Title:    "Stress well managed",
			Message: fmt.Sprintf(
				"Volume steady (%.0f%% change) at RPE %.1f. This is a productive training zone.",
				*change, *rpe,
			),
		})
	case *change < -15 && *rpe < 7 && phase != program.PhaseDeload:
		return append(insights, CoachInsight{
			Severity: SeverityInfo,
			Title:    "Room to push",
			Message: fmt.Sprintf(
				"Volume down %.0f%% with RPE at %.1f. If you feel fresh, there is room to push a bit more.",
				math.Abs(*change), *rpe,
			),
		})
	default:
		return insights
	}
}

// minLiftsForTrendInsights: lift-trend insights need at least this many key
// lifts with a known change to say anything meaningful.
const minLiftsForTrendInsights = 3

func appendKeyLiftInsights(insights []CoachInsight, phase program.Phase, keyLifts []KeyLiftSummary) []CoachInsight {
	var changes []float64
	maxChange := math.Inf(-1)
	var maxLift KeyLiftSummary
	for _, lift := range keyLifts {
		if lift.ChangePercent == nil {
			continue
		}
		changes = append(changes, *lift.ChangePercent)
		if *lift.ChangePercent > maxChange {
			maxChange = *lift.ChangePercent
			maxLift = lift
		}
	}

	if len(changes) < minLiftsForTrendInsights {
		return insights
	}

	changeSum := 0.0
	for _, change := range changes {
		changeSum += change
	}
	meanChange := changeSum / float64(len(changes))

	if maxChange >= 7 && maxChange > meanChange+3 {
		liftName := maxLift.ExerciseName
		if liftName == "" {
			liftName = maxLift.ExerciseID
		}
		insights = append(insights, CoachInsight{
			Severity: SeverityInfo,
			Title:    "Standout progress",
			Message: fmt.Sprintf(
				"%s is moving: %.1f%% load increase, well ahead of your other key lifts.",
				liftName, maxChange,
			),
		})
	}

	if phase == program.PhaseBuild {
		allFlat := true
		for _, change := range changes {
			if change > 1 {
				allFlat = false
				break
			}
		}
		if allFlat {
			insights = append(insights, CoachInsight{
				Severity: SeverityWarning,
				Title:    "Potential plateau",
				Message:  "Your key lifts have been flat this block. Consider a small load increase or an exercise variation.",
			})
		}
	}

	return insights
}

// SortInsightsByPriority returns a new slice ordered by severity, most
// urgent first. The sort is stable, insights of equal severity keep their
// generation order.
func SortInsightsByPriority(insights []CoachInsight) []CoachInsight {
	sorted := make([]CoachInsight, len(insights))
	copy(sorted, insights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.rank() < sorted[j].Severity.rank()
	})
	return sorted
}
