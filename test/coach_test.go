package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/traincoach/internal/training/coach"
	"github.com/2beens/traincoach/internal/training/history"
	"github.com/2beens/traincoach/internal/training/periodization"
	"github.com/2beens/traincoach/internal/training/program"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) getWeekReviewRequest(ctx context.Context, token string, weekNumber int) (*coach.WeekReview, int, string) {
	t := s.T()
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/coach/weeks/%d/review", serverEndpoint, weekNumber),
		nil,
	)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-COACH-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, strings.TrimSpace(string(respBytes))
	}

	var review coach.WeekReview
	require.NoError(t, json.Unmarshal(respBytes, &review))
	return &review, resp.StatusCode, ""
}

func (s *IntegrationTestSuite) TestCoachReviews() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.dbDataCleanup(ctx))
	token := s.doLogin(ctx)

	// no program saved yet
	_, status, errMsg := s.getWeekReviewRequest(ctx, token, 1)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "program not found", errMsg)

	// one week program, running right now, one lower body day
	weekStart := time.Now().Add(-12 * time.Hour).UTC()
	coachProgram := program.MultiWeek{
		Weeks: []program.Week{{
			ID:         "week-1",
			WeekNumber: 1,
			StartDate:  weekStart,
			Focus:      "strength base",
			Phase:      program.PhaseBuild,
			Days: []program.Day{{
				Day:   "monday",
				Focus: program.DayFocusLower,
				Exercises: []program.Exercise{
					{ID: "squat", Name: "Back Squat", Sets: 2, Reps: "5"},
					{ID: "bench-press", Name: "Bench Press", Sets: 1, Reps: "8"},
				},
			}},
		}},
		Blocks:           []program.Block{{ID: "block-1", Goal: program.GoalStrength, StartWeekIndex: 0}},
		CurrentWeekIndex: 0,
	}
	saveResp := s.saveProgramRequest(ctx, token, coachProgram)
	require.Equal(t, 1, saveResp.Weeks)

	// log the monday session: all planned sets done
	added := s.newHistoryEntryRequest(ctx, history.Entry{
		Day:         "monday",
		WeekNumber:  1,
		CompletedAt: weekStart.Add(6 * time.Hour),
		Exercises: []history.ExerciseLog{
			{
				ExerciseID:   "squat",
				ExerciseName: "Back Squat",
				Sets: []history.SetLog{
					{Status: history.SetStatusCompleted, Load: f64(100), Reps: iptr(5), Rpe: f64(7)},
					{Status: history.SetStatusCompleted, Load: f64(100), Reps: iptr(5), Rpe: f64(8)},
				},
			},
			{
				ExerciseID: "bench-press",
				Sets: []history.SetLog{
					{Status: history.SetStatusCompleted, Load: f64(60), Reps: iptr(8), Rpe: f64(7.5)},
				},
			},
		},
	})
	require.Equal(t, 1, added.WeekSessionCount)

	review, status, _ := s.getWeekReviewRequest(ctx, token, 1)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, review)

	assert.Equal(t, 1, review.WeekNumber)
	assert.Equal(t, program.PhaseBuild, review.Phase)

	// everything planned got done
	assert.Equal(t, 1, review.Adherence.PlannedSessions)
	assert.Equal(t, 1, review.Adherence.CompletedSessions)
	assert.Equal(t, 3, review.Adherence.PlannedSets)
	assert.Equal(t, 3, review.Adherence.CompletedSets)
	assert.Equal(t, 1.0, review.Adherence.OverallAdherence)
	assert.Equal(t, periodization.AdherenceLabelOnTrack, review.Adherence.Label)

	// 2x100x5 squat + 1x60x8 bench
	assert.Equal(t, 1480.0, review.Stress.TotalVolume)
	assert.Nil(t, review.Stress.VolumeChangePercent)
	require.NotNil(t, review.Stress.AvgRpe)
	assert.Equal(t, 7.5, *review.Stress.AvgRpe)

	// squat outranks bench on volume, no previous week to compare against
	require.Len(t, review.KeyLifts, 2)
	squatLift := review.KeyLifts[0]
	assert.Equal(t, "squat", squatLift.ExerciseID)
	assert.Equal(t, "Back Squat", squatLift.ExerciseName)
	assert.Equal(t, 1000.0, squatLift.TotalVolume)
	assert.Equal(t, 2, squatLift.SetCount)
	require.NotNil(t, squatLift.CurrentAvgLoad)
	assert.Equal(t, 100.0, *squatLift.CurrentAvgLoad)
	assert.Nil(t, squatLift.ChangePercent)
	assert.Equal(t, "bench-press", review.KeyLifts[1].ExerciseID)
	assert.Equal(t, 480.0, review.KeyLifts[1].TotalVolume)

	require.Len(t, review.Insights, 2)
	assert.Equal(t, "Great consistency", review.Insights[0].Title)
	assert.Equal(t, periodization.SeveritySuccess, review.Insights[0].Severity)
	assert.Equal(t, "Strong start", review.Insights[1].Title)

	// a week the program does not have
	_, status, errMsg = s.getWeekReviewRequest(ctx, token, 9)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "week not found", errMsg)

	// active block recommendation: one clean week, nothing to compare, stay put
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/coach/blocks/active/recommendation", serverEndpoint),
		nil,
	)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-COACH-TOKEN", token)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var blockReview coach.BlockReview
	require.NoError(t, json.Unmarshal(respBytes, &blockReview))
	assert.Equal(t, "block-1", blockReview.BlockID)
	assert.Equal(t, program.GoalStrength, blockReview.Goal)
	assert.Equal(t, 1, blockReview.WeeksInBlock)
	assert.Equal(t, 1.0, blockReview.Metrics.SessionAdherence)
	assert.Equal(t, 1.0, blockReview.Metrics.SetAdherence)
	assert.Nil(t, blockReview.Metrics.VolumeChangePercent)
	require.NotNil(t, blockReview.Metrics.AvgRpe)
	assert.Equal(t, 7.5, *blockReview.Metrics.AvgRpe)
	assert.Equal(t, 0, blockReview.Metrics.LiftProgressCount)
	assert.Equal(t, 2, blockReview.Metrics.TotalKeyLifts)
	assert.Equal(t, "Stay the course", blockReview.Recommendation.Title)
	assert.Equal(t, periodization.ActionAdvance, blockReview.Recommendation.RecommendedAction)

	// drive credentials are not configured in tests
	req, err = http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/backup/history", serverEndpoint),
		nil,
	)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-COACH-TOKEN", token)
	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	respBytes, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "history backup not configured", strings.TrimSpace(string(respBytes)))
}
