package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nanda2463/mindmirror-ai--5/internal/models"
	"github.com/nanda2463/mindmirror-ai--5/internal/repository"
	"github.com/nanda2463/mindmirror-ai--5/internal/stats"
)

type SessionsHandler struct {
	log *zap.Logger
}

func NewSessionsHandler(log *zap.Logger) *SessionsHandler {
	return &SessionsHandler{log: log}
}

// List returns the user's closed sessions, most recent first, with the
// display-derived primary state and efficiency for each.
func (h *SessionsHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	records, err := repository.ListSessionsByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to fetch session history", zap.Error(err), zap.Uint("userID", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch sessions"})
		return
	}

	views := make([]models.SessionView, 0, len(records))
	for _, record := range records {
		views = append(views, record.View())
	}
	c.JSON(http.StatusOK, views)
}

// Summary returns aggregate figures over the user's entire history,
// including progress toward their daily focus goal.
func (h *SessionsHandler) Summary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	records, err := repository.ListSessionsByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("Failed to fetch sessions for summary", zap.Error(err), zap.Uint("userID", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, stats.Summarize(records, time.Now(), user.DailyGoalMinutes))
}

// Trend returns per-day session totals over the requested window
// (default 14 days, capped at 90).
func (h *SessionsHandler) Trend(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "14"))
	if err != nil || days < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid days parameter"})
		return
	}
	if days > 90 {
		days = 90
	}

	points, err := repository.GetDailyTrend(c.Request.Context(), user.ID, days)
	if err != nil {
		h.log.Error("Failed to fetch daily trend", zap.Error(err), zap.Uint("userID", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to compute trend"})
		return
	}

	c.JSON(http.StatusOK, points)
}
