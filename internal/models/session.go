package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/nanda2463/mindmirror-ai--5/internal/engine"
)

// SessionRecord is the persisted form of a closed focus session. The six
// state weights are stored as an array column in FocusState declaration
// order, the same layout engine.Distribution uses in memory.
type SessionRecord struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	UserID          uint   `gorm:"index"`
	User            User   `gorm:"foreignKey:UserID"`
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int
	Locked          bool
	TargetSeconds   int
	StateWeights    pq.Float64Array `gorm:"type:double precision[]"`
	CreatedAt       time.Time
}

// NewSessionRecord converts a finalized engine record for storage.
func NewSessionRecord(userID uint, data engine.SessionData) SessionRecord {
	weights := make(pq.Float64Array, engine.NumStates)
	for i, w := range data.Distribution {
		weights[i] = w
	}
	return SessionRecord{
		ID:              data.ID,
		UserID:          userID,
		StartTime:       data.StartTime,
		EndTime:         data.EndTime,
		DurationSeconds: data.DurationSeconds,
		Locked:          data.Locked,
		TargetSeconds:   data.TargetSeconds,
		StateWeights:    weights,
	}
}

// Distribution rebuilds the in-memory histogram. Rows written by older
// schema versions may carry a short array; missing states read as zero.
func (r SessionRecord) Distribution() engine.Distribution {
	var d engine.Distribution
	for i := 0; i < len(r.StateWeights) && i < engine.NumStates; i++ {
		d[i] = r.StateWeights[i]
	}
	return d
}

// SessionView is the API shape of a closed session. PrimaryState and
// Efficiency are display-derived, recomputed on demand and never stored.
type SessionView struct {
	ID                string                        `json:"id"`
	StartTime         time.Time                     `json:"startTime"`
	EndTime           time.Time                     `json:"endTime"`
	DurationSeconds   int                           `json:"durationSeconds"`
	IsLocked          bool                          `json:"isLocked"`
	TargetDuration    int                           `json:"targetDuration,omitempty"`
	StateDistribution map[engine.FocusState]float64 `json:"stateDistribution"`
	PrimaryState      engine.FocusState             `json:"primaryState"`
	Efficiency        int                           `json:"efficiency"`
}

// View derives the API representation of the record.
func (r SessionRecord) View() SessionView {
	dist := r.Distribution()
	return SessionView{
		ID:                r.ID,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		DurationSeconds:   r.DurationSeconds,
		IsLocked:          r.Locked,
		TargetDuration:    r.TargetSeconds,
		StateDistribution: dist.Map(),
		PrimaryState:      dist.Primary(),
		Efficiency:        dist.Efficiency(r.DurationSeconds),
	}
}
