package repository

import (
	"codequest_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

func (r *ExerciseRepository) Create(exercise *model.Exercise) error {
	return r.DB.Create(exercise).Error
}

func (r *ExerciseRepository) Update(exercise *model.Exercise) error {
	return r.DB.Save(exercise).Error
}

func (r *ExerciseRepository) FindByID(id uint) (*model.Exercise, error) {
	var e model.Exercise
	if err := r.DB.Preload("Language").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExerciseRepository) FindByPublicCode(code string) (*model.Exercise, error) {
	var e model.Exercise
	if err := r.DB.Preload("Language").Where("public_code = ?", code).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExerciseRepository) ListPublished(page, limit int) ([]model.Exercise, int64, error) {
	var exercises []model.Exercise
	var total int64

	q := r.DB.Model(&model.Exercise{}).Where("is_published = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Language").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&exercises).Error
	return exercises, total, err
}

func (r *ExerciseRepository) ListByCreator(creatorID uint, page, limit int) ([]model.Exercise, int64, error) {
	var exercises []model.Exercise
	var total int64

	q := r.DB.Model(&model.Exercise{}).Where("creator_id = ?", creatorID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Language").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&exercises).Error
	return exercises, total, err
}
