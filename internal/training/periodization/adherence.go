package periodization

import (
	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/internal/training/program"
)

const (
	AdherenceLabelOnTrack = "On track"
	AdherenceLabelGood    = "Good, but room for improvement"
	AdherenceLabelUnder   = "Under target this week"
)

type WeeklyAdherenceMetrics struct {
	PlannedSessions   int     `json:"plannedSessions"`
	CompletedSessions int     `json:"completedSessions"`
	PlannedSets       int     `json:"plannedSets"`
	CompletedSets     int     `json:"completedSets"`
	SessionAdherence  float64 `json:"sessionAdherence"`
	SetAdherence      float64 `json:"setAdherence"`
	OverallAdherence  float64 `json:"overallAdherence"`
	Label             string  `json:"label"`
}

// CalculateWeeklyAdherence compares planned vs. completed sessions and sets
// for one program week. One history entry counts as one session.
func CalculateWeeklyAdherence(week program.Week, entries []history.Entry) WeeklyAdherenceMetrics {
	weekEntries := entriesInWeek(entries, week)

	metrics := WeeklyAdherenceMetrics{
		PlannedSessions:   len(week.Days),
		CompletedSessions: len(weekEntries),
	}

	for _, day := range week.Days {
		for _, exercise := range day.Exercises {
			metrics.PlannedSets += exercise.Sets
		}
	}
	for _, entry := range weekEntries {
		metrics.CompletedSets += entry.CompletedSetCount()
	}

	metrics.SessionAdherence = adherenceRatio(metrics.CompletedSessions, metrics.PlannedSessions)
	metrics.SetAdherence = adherenceRatio(metrics.CompletedSets, metrics.PlannedSets)
	metrics.OverallAdherence = (metrics.SessionAdherence + metrics.SetAdherence) / 2

	switch {
	case metrics.OverallAdherence >= 0.9:
		metrics.Label = AdherenceLabelOnTrack
	case metrics.OverallAdherence >= 0.7:
		metrics.Label = AdherenceLabelGood
	default:
		metrics.Label = AdherenceLabelUnder
	}

	return metrics
}

// adherenceRatio is completed/planned, 0 when nothing is planned and
// capped at 1 so that extra logged work never reports adherence above 100%.
func adherenceRatio(completed, planned int) float64 {
	if planned <= 0 {
		return 0
	}
	ratio := float64(completed) / float64(planned)
	if ratio > 1 {
		return 1
	}
	return ratio
}
