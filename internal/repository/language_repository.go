package repository

import (
	"codequest_backend/internal/model"

	"gorm.io/gorm"
)

type LanguageRepository struct {
	DB *gorm.DB
}

func NewLanguageRepository(db *gorm.DB) *LanguageRepository {
	return &LanguageRepository{DB: db}
}

func (r *LanguageRepository) List() ([]model.Language, error) {
	var languages []model.Language
	err := r.DB.Order("name ASC").Find(&languages).Error
	return languages, err
}

func (r *LanguageRepository) FindByID(id uint) (*model.Language, error) {
	var l model.Language
	if err := r.DB.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LanguageRepository) FindBySlug(slug string) (*model.Language, error) {
	var l model.Language
	if err := r.DB.Where("slug = ?", slug).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}
