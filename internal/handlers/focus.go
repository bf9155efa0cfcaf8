package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nanda2463/mindmirror-ai--5/internal/models"
	"github.com/nanda2463/mindmirror-ai--5/internal/services"
)

type FocusHandler struct {
	log   *zap.Logger
	focus *services.FocusService
}

func NewFocusHandler(log *zap.Logger, focus *services.FocusService) *FocusHandler {
	return &FocusHandler{log: log, focus: focus}
}

func currentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	return user.(*models.User), true
}

type sessionControlRequest struct {
	TargetMinutes int `json:"targetMinutes"`
}

// inputEvent is one raw interaction event from the client's event taps.
type inputEvent struct {
	Type   string  `json:"type"` // keydown | pointermove | visibilitychange
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Hidden bool    `json:"hidden"`
}

type eventBatch struct {
	Events []inputEvent `json:"events"`
}

// State returns the engine's full UI-facing snapshot.
func (h *FocusHandler) State(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, h.focus.EngineFor(user.ID).Snapshot())
}

// Start begins a session. Starting while one is active is a no-op, so the
// response snapshot reflects whichever session is actually running.
func (h *FocusHandler) Start(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	var req sessionControlRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
	}
	eng := h.focus.EngineFor(user.ID)
	eng.StartSession(req.TargetMinutes)
	c.JSON(http.StatusOK, eng.Snapshot())
}

func (h *FocusHandler) End(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	eng := h.focus.EngineFor(user.ID)
	eng.EndSession()
	c.JSON(http.StatusOK, eng.Snapshot())
}

func (h *FocusHandler) Toggle(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	var req sessionControlRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
	}
	eng := h.focus.EngineFor(user.ID)
	eng.ToggleSession(req.TargetMinutes)
	c.JSON(http.StatusOK, eng.Snapshot())
}

func (h *FocusHandler) Reset(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	eng := h.focus.EngineFor(user.ID)
	eng.ResetSession()
	c.JSON(http.StatusOK, eng.Snapshot())
}

// IngestEvents feeds a batch of raw input events into the user's engine.
// Events arriving outside an active session are accepted and ignored, the
// same way the engine treats any signal while inactive.
func (h *FocusHandler) IngestEvents(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	var batch eventBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		h.log.Warn("Failed to bind event batch", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}

	eng := h.focus.EngineFor(user.ID)
	unknown := 0
	for _, ev := range batch.Events {
		switch ev.Type {
		case "keydown":
			eng.KeyPress()
		case "pointermove":
			eng.PointerMove(ev.DX, ev.DY)
		case "visibilitychange":
			eng.VisibilityChange(ev.Hidden)
		default:
			unknown++
		}
	}
	if unknown > 0 {
		h.log.Warn("Dropped events of unknown type",
			zap.Int("count", unknown),
			zap.Uint("userID", user.ID))
	}
	c.Status(http.StatusAccepted)
}
