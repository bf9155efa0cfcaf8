// Package stats aggregates closed focus sessions into the summary figures
// the dashboard shows: lifetime totals, per-state time, and progress toward
// the user's daily goal.
package stats

import (
	"math"
	"time"

	"github.com/nanda2463/mindmirror-ai--5/internal/engine"
	"github.com/nanda2463/mindmirror-ai--5/internal/models"
)

// Summary holds aggregate figures over a user's session history.
type Summary struct {
	SessionCount          int                           `json:"sessionCount"`
	TotalSeconds          int                           `json:"totalSeconds"`
	LockedSessions        int                           `json:"lockedSessions"`
	LongestSessionSeconds int                           `json:"longestSessionSeconds"`
	AverageEfficiency     int                           `json:"averageEfficiency"`
	StateSeconds          map[engine.FocusState]float64 `json:"stateSeconds"`
	FlowShare             float64                       `json:"flowShare"`
	TodaySeconds          int                           `json:"todaySeconds"`
	GoalMinutes           int                           `json:"goalMinutes"`
	GoalProgress          int                           `json:"goalProgress"`
}

// Summarize computes aggregate figures over the given records. Per-state
// time is apportioned from each session's dwell-weight distribution: a
// state's share of the session's weight mass is its share of the session's
// wall-clock duration. `now` anchors the "today" window for goal progress.
func Summarize(records []models.SessionRecord, now time.Time, goalMinutes int) Summary {
	summary := Summary{
		StateSeconds: make(map[engine.FocusState]float64, engine.NumStates),
		GoalMinutes:  goalMinutes,
	}
	for s := engine.FocusState(0); int(s) < engine.NumStates; s++ {
		summary.StateSeconds[s] = 0
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	efficiencySum := 0

	for _, record := range records {
		summary.SessionCount++
		summary.TotalSeconds += record.DurationSeconds
		if record.Locked {
			summary.LockedSessions++
		}
		if record.DurationSeconds > summary.LongestSessionSeconds {
			summary.LongestSessionSeconds = record.DurationSeconds
		}
		if !record.EndTime.Before(dayStart) {
			summary.TodaySeconds += record.DurationSeconds
		}

		dist := record.Distribution()
		efficiencySum += dist.Efficiency(record.DurationSeconds)

		total := 0.0
		for _, w := range dist {
			total += w
		}
		if total <= 0 {
			continue
		}
		for i, w := range dist {
			summary.StateSeconds[engine.FocusState(i)] += w / total * float64(record.DurationSeconds)
		}
	}

	if summary.SessionCount > 0 {
		summary.AverageEfficiency = int(math.Round(float64(efficiencySum) / float64(summary.SessionCount)))
	}
	if summary.TotalSeconds > 0 {
		summary.FlowShare = summary.StateSeconds[engine.StateFlow] / float64(summary.TotalSeconds)
	}
	if goalMinutes > 0 {
		progress := float64(summary.TodaySeconds) / float64(goalMinutes*60) * 100
		summary.GoalProgress = int(math.Min(100, math.Round(progress)))
	}

	return summary
}
