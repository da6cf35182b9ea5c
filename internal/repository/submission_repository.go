package repository

import (
	"codequest_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) ListByUser(userID uint, page, limit int) ([]model.Submission, int64, error) {
	var submissions []model.Submission
	var total int64

	q := r.DB.Model(&model.Submission{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&submissions).Error
	return submissions, total, err
}

// HasAccepted reports whether the user already has an accepted submission
// for the exercise, i.e. the challenge is completed.
func (r *SubmissionRepository) HasAccepted(userID, exerciseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("user_id = ? AND exercise_id = ? AND status = ?", userID, exerciseID, model.SubmissionAccepted).
		Count(&count).Error
	return count > 0, err
}

// AcceptedExerciseIDs returns the set of exercises the user has an
// accepted submission for.
func (r *SubmissionRepository) AcceptedExerciseIDs(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.Model(&model.Submission{}).
		Where("user_id = ? AND status = ?", userID, model.SubmissionAccepted).
		Distinct("exercise_id").
		Pluck("exercise_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *SubmissionRepository) CountAcceptedByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Where("user_id = ? AND status = ?", userID, model.SubmissionAccepted).
		Count(&count).Error
	return count, err
}
