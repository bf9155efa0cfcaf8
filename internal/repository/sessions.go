package repository

import (
	"context"

	"github.com/nanda2463/mindmirror-ai--5/internal/database"
	"github.com/nanda2463/mindmirror-ai--5/internal/models"
)

func SaveSession(ctx context.Context, record *models.SessionRecord) error {
	return database.DB.WithContext(ctx).Create(record).Error
}

// ListSessionsByUser returns the user's closed sessions, most recent first.
func ListSessionsByUser(ctx context.Context, userID uint) ([]models.SessionRecord, error) {
	var records []models.SessionRecord
	result := database.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("end_time DESC").
		Find(&records)
	return records, result.Error
}

func DeleteSessionsByUser(ctx context.Context, userID uint) error {
	return database.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.SessionRecord{}).Error
}
