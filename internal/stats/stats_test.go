package stats

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/nanda2463/mindmirror-ai--5/internal/engine"
	"github.com/nanda2463/mindmirror-ai--5/internal/models"
)

var noon = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func record(durationSeconds int, end time.Time, weights map[engine.FocusState]float64) models.SessionRecord {
	w := make(pq.Float64Array, engine.NumStates)
	for s, v := range weights {
		w[s] = v
	}
	return models.SessionRecord{
		ID:              "rec",
		UserID:          1,
		StartTime:       end.Add(-time.Duration(durationSeconds) * time.Second),
		EndTime:         end,
		DurationSeconds: durationSeconds,
		StateWeights:    w,
	}
}

func TestSummarizeEmptyHistory(t *testing.T) {
	summary := Summarize(nil, noon, 60)

	assert.Equal(t, 0, summary.SessionCount)
	assert.Equal(t, 0, summary.TotalSeconds)
	assert.Equal(t, 0, summary.AverageEfficiency)
	assert.Equal(t, 0, summary.GoalProgress)
	assert.Len(t, summary.StateSeconds, engine.NumStates)
	for _, seconds := range summary.StateSeconds {
		assert.Zero(t, seconds)
	}
}

func TestSummarizeApportionsStateTime(t *testing.T) {
	records := []models.SessionRecord{
		record(600, noon, map[engine.FocusState]float64{
			engine.StateFlow:       400,
			engine.StateFocused:    80,
			engine.StateDistracted: 120,
		}),
	}

	summary := Summarize(records, noon, 0)

	assert.Equal(t, 1, summary.SessionCount)
	assert.Equal(t, 600, summary.TotalSeconds)
	assert.Equal(t, 80, summary.AverageEfficiency)
	assert.InDelta(t, 400, summary.StateSeconds[engine.StateFlow], 0.001)
	assert.InDelta(t, 80, summary.StateSeconds[engine.StateFocused], 0.001)
	assert.InDelta(t, 120, summary.StateSeconds[engine.StateDistracted], 0.001)
	assert.InDelta(t, 400.0/600.0, summary.FlowShare, 0.001)
}

func TestSummarizeSkipsWeightlessSessions(t *testing.T) {
	yesterday := noon.Add(-24 * time.Hour)
	records := []models.SessionRecord{
		record(600, noon, map[engine.FocusState]float64{engine.StateFlow: 600}),
		record(300, yesterday, nil),
	}

	summary := Summarize(records, noon, 0)

	assert.Equal(t, 2, summary.SessionCount)
	assert.Equal(t, 900, summary.TotalSeconds)
	assert.Equal(t, 600, summary.LongestSessionSeconds)
	// 100 and 0 efficiency average to 50.
	assert.Equal(t, 50, summary.AverageEfficiency)
	// The weightless session contributes nothing to per-state time.
	assert.InDelta(t, 600, summary.StateSeconds[engine.StateFlow], 0.001)
	assert.InDelta(t, 600.0/900.0, summary.FlowShare, 0.001)
}

func TestSummarizeGoalProgress(t *testing.T) {
	yesterday := noon.Add(-24 * time.Hour)
	records := []models.SessionRecord{
		record(600, noon, map[engine.FocusState]float64{engine.StateFocused: 600}),
		record(3600, yesterday, map[engine.FocusState]float64{engine.StateFocused: 3600}),
	}

	// Only today's 10 minutes count against a 30 minute goal.
	summary := Summarize(records, noon, 30)
	assert.Equal(t, 600, summary.TodaySeconds)
	assert.Equal(t, 33, summary.GoalProgress)

	// Progress clamps at 100 even when the goal is exceeded.
	summary = Summarize(records, noon, 5)
	assert.Equal(t, 100, summary.GoalProgress)
}

func TestSummarizeCountsLockedSessions(t *testing.T) {
	locked := record(1500, noon, map[engine.FocusState]float64{engine.StateFocused: 1500})
	locked.Locked = true
	locked.TargetSeconds = 1500

	summary := Summarize([]models.SessionRecord{locked}, noon, 0)
	assert.Equal(t, 1, summary.LockedSessions)
	assert.Equal(t, 1500, summary.LongestSessionSeconds)
}
