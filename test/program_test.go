package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/traincoach/internal/training/program"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func e2eProgram(firstWeekStart time.Time) program.MultiWeek {
	weeks := make([]program.Week, 0, 2)
	for i := 0; i < 2; i++ {
		weeks = append(weeks, program.Week{
			ID:         fmt.Sprintf("week-%d", i+1),
			WeekNumber: i + 1,
			StartDate:  firstWeekStart.AddDate(0, 0, 7*i),
			Focus:      "strength base",
			Phase:      program.PhaseBuild,
			Days: []program.Day{{
				Day:   "monday",
				Focus: program.DayFocusLower,
				Exercises: []program.Exercise{
					{ID: "squat", Name: "Back Squat", Sets: 2, Reps: "5"},
					{ID: "bench-press", Name: "Bench Press", Sets: 1, Reps: "8-10"},
				},
			}},
		})
	}
	return program.MultiWeek{
		Weeks:            weeks,
		Blocks:           []program.Block{{ID: "block-1", Goal: program.GoalStrength, StartWeekIndex: 0}},
		CurrentWeekIndex: 1,
	}
}

func (s *IntegrationTestSuite) saveProgramRequest(
	ctx context.Context,
	token string,
	p program.MultiWeek,
) program.SaveProgramResponse {
	t := s.T()
	programJson, err := json.Marshal(p)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/program", serverEndpoint),
		bytes.NewReader(programJson),
	)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-COACH-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var saveResp program.SaveProgramResponse
	require.NoError(t, json.Unmarshal(respBytes, &saveResp))
	return saveResp
}

func (s *IntegrationTestSuite) getProgramRequest(ctx context.Context, token string) program.MultiWeek {
	t := s.T()
	req, err := http.NewRequestWithContext(
		ctx,
		"GET", fmt.Sprintf("%s/program", serverEndpoint),
		nil,
	)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-COACH-TOKEN", token)

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var p program.MultiWeek
	require.NoError(t, json.Unmarshal(respBytes, &p))
	return p
}

func (s *IntegrationTestSuite) TestProgramFlow() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.dbDataCleanup(ctx))
	token := s.doLogin(ctx)

	// nothing saved yet
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/program", serverEndpoint), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-COACH-TOKEN", token)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// without a login token the program api stays closed
	req, err = http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/program", serverEndpoint), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// save a two week program
	sentProgram := e2eProgram(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))
	saveResp := s.saveProgramRequest(ctx, token, sentProgram)
	assert.Equal(t, 2, saveResp.Weeks)
	assert.Equal(t, 1, saveResp.Blocks)
	assert.Equal(t, 1, saveResp.CurrentWeekIndex)

	// read it back
	gotProgram := s.getProgramRequest(ctx, token)
	assert.Equal(t, sentProgram, gotProgram)

	// blocks endpoint serves the block bookkeeping
	req, err = http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/program/blocks", serverEndpoint), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-COACH-TOKEN", token)
	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	var blocksResp program.BlocksResponse
	require.NoError(t, json.Unmarshal(respBytes, &blocksResp))
	require.Len(t, blocksResp.Blocks, 1)
	assert.Equal(t, "block-1", blocksResp.Blocks[0].ID)
	assert.Nil(t, blocksResp.Blocks[0].EndWeekIndex)

	// a program without weeks gets rejected
	invalidProgramJson := []byte(`{"weeks":[],"blocks":[],"currentWeekIndex":0}`)
	req, err = http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/program", serverEndpoint), bytes.NewReader(invalidProgramJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-COACH-TOKEN", token)
	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	respBytes, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, string(respBytes), "invalid program: program weeks empty")

	// extend the program by one generated week
	req, err = http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/program/weeks/next", serverEndpoint), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-COACH-TOKEN", token)
	resp, err = s.httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	respBytes, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	var nextWeekResp program.GenerateNextWeekResponse
	require.NoError(t, json.Unmarshal(respBytes, &nextWeekResp))
	assert.Equal(t, 3, nextWeekResp.Week.WeekNumber)
	assert.Equal(t, "week-3", nextWeekResp.Week.ID)
	assert.Equal(t, program.PhaseBuild, nextWeekResp.Week.Phase)
	assert.Equal(t, 2, nextWeekResp.CurrentWeekIndex)

	// the generated week got persisted
	extendedProgram := s.getProgramRequest(ctx, token)
	require.Len(t, extendedProgram.Weeks, 3)
	assert.Equal(t, 2, extendedProgram.CurrentWeekIndex)
	assert.Equal(t, sentProgram.Weeks, extendedProgram.Weeks[:2])
}
