package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nanda2463/mindmirror-ai--5/internal/engine"
	"github.com/nanda2463/mindmirror-ai--5/internal/models"
	"github.com/nanda2463/mindmirror-ai--5/internal/repository"
)

// FocusService owns one focus engine per user. Every mutating call for a
// user funnels through that user's engine, which serializes internally, so
// concurrent HTTP requests cannot race the classifier.
type FocusService struct {
	log *zap.Logger
	cfg engine.Config

	mu      sync.Mutex
	engines map[uint]*engine.Engine
}

func NewFocusService(log *zap.Logger, cfg engine.Config) *FocusService {
	return &FocusService{
		log:     log,
		cfg:     cfg,
		engines: make(map[uint]*engine.Engine),
	}
}

// EngineFor returns the engine holding userID's session state, creating it
// on first use. Closed sessions are persisted through the close callback.
func (s *FocusService) EngineFor(userID uint) *engine.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.engines[userID]; ok {
		return e
	}
	e := engine.New(s.cfg,
		engine.WithLogger(s.log.With(zap.Uint("user_id", userID))),
		engine.WithCloseCallback(func(data engine.SessionData) {
			s.persist(userID, data)
		}),
	)
	s.engines[userID] = e
	return e
}

// Drop releases a user's engine, aborting any active session without
// recording it. Used on logout and account deletion.
func (s *FocusService) Drop(userID uint) {
	s.mu.Lock()
	e := s.engines[userID]
	delete(s.engines, userID)
	s.mu.Unlock()

	if e != nil {
		e.ResetSession()
	}
}

func (s *FocusService) persist(userID uint, data engine.SessionData) {
	record := models.NewSessionRecord(userID, data)
	if err := repository.SaveSession(context.Background(), &record); err != nil {
		s.log.Error("Failed to persist closed session",
			zap.Error(err),
			zap.Uint("userID", userID),
			zap.String("sessionID", data.ID))
		return
	}
	s.log.Debug("Closed session persisted",
		zap.Uint("userID", userID),
		zap.String("sessionID", data.ID),
		zap.Int("durationSeconds", data.DurationSeconds))
}
