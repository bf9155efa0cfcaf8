package repository

import (
	"context"
	"time"

	"github.com/nanda2463/mindmirror-ai--5/internal/database"
)

// TrendDataPoint is one day of aggregated session activity, used by the
// client's history chart.
type TrendDataPoint struct {
	Date         time.Time `json:"date"`
	TotalSeconds int       `json:"totalSeconds"`
	Sessions     int       `json:"sessions"`
}

// GetDailyTrend aggregates the user's closed sessions per day over the last
// `days` days, most recent day last. Days without sessions are omitted; the
// client fills the gaps.
func GetDailyTrend(ctx context.Context, userID uint, days int) ([]TrendDataPoint, error) {
	var data []TrendDataPoint

	query := `
		SELECT
			date_trunc('day', end_time) AS date,
			SUM(duration_seconds)::int  AS total_seconds,
			COUNT(*)::int               AS sessions
		FROM session_records
		WHERE user_id = ? AND end_time >= ?
		GROUP BY date_trunc('day', end_time)
		ORDER BY date;
	`
	since := time.Now().AddDate(0, 0, -days)

	err := database.DB.WithContext(ctx).Raw(query, userID, since).Scan(&data).Error
	return data, err
}
