package repository

import (
	"codequest_backend/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttemptRepository persists in-progress challenge drafts. The table is
// keyed by (user_id, exercise_id); upserts overwrite the single record.
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// GetCurrent returns the attempt for (user, exercise), or
// gorm.ErrRecordNotFound when none exists.
func (r *AttemptRepository) GetCurrent(ctx context.Context, userID, exerciseID uint) (*model.ChallengeAttempt, error) {
	var a model.ChallengeAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert creates or overwrites the single record for (user, exercise) and
// returns the persisted row, including its UpdatedAt.
func (r *AttemptRepository) Upsert(ctx context.Context, attempt *model.ChallengeAttempt) (*model.ChallengeAttempt, error) {
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "exercise_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "time_spent_ms", "status", "updated_at"}),
		}).
		Create(attempt).Error
	if err != nil {
		return nil, err
	}

	return r.GetCurrent(ctx, attempt.UserID, attempt.ExerciseID)
}

// Delete removes the attempt record. Deleting a missing record is success.
func (r *AttemptRepository) Delete(ctx context.Context, userID, exerciseID uint) error {
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Delete(&model.ChallengeAttempt{}).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
