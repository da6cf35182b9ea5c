package service

import (
	"codequest_backend/internal/judge0"
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type ExerciseService struct {
	ExerciseRepo   *repository.ExerciseRepository
	LanguageRepo   *repository.LanguageRepository
	SubmissionRepo *repository.SubmissionRepository
}

func NewExerciseService(
	exerciseRepo *repository.ExerciseRepository,
	languageRepo *repository.LanguageRepository,
	submissionRepo *repository.SubmissionRepository,
) *ExerciseService {
	return &ExerciseService{
		ExerciseRepo:   exerciseRepo,
		LanguageRepo:   languageRepo,
		SubmissionRepo: submissionRepo,
	}
}

type ExerciseRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Difficulty   int    `json:"difficulty" binding:"omitempty,min=1,max=5"`
	BaseXP       int    `json:"baseXp"`
	CodeTemplate string `json:"codeTemplate"`
	LanguageID   *uint  `json:"languageId"`
	IsPublished  *bool  `json:"isPublished"`
}

// ExerciseView decorates an exercise with per-user state.
type ExerciseView struct {
	model.Exercise
	Completed bool `json:"completed"`
}

func (s *ExerciseService) Create(creatorID uint, req ExerciseRequest) (*model.Exercise, error) {
	exercise := &model.Exercise{
		Title:        req.Title,
		Description:  req.Description,
		Difficulty:   req.Difficulty,
		BaseXP:       req.BaseXP,
		PublicCode:   model.GenerateUUID(),
		CodeTemplate: req.CodeTemplate,
		LanguageID:   req.LanguageID,
		CreatorID:    creatorID,
	}
	if exercise.Difficulty == 0 {
		exercise.Difficulty = 2
	}
	if exercise.BaseXP == 0 {
		exercise.BaseXP = 100
	}
	if req.IsPublished != nil {
		exercise.IsPublished = *req.IsPublished
	} else {
		exercise.IsPublished = true
	}

	if err := s.ExerciseRepo.Create(exercise); err != nil {
		return nil, err
	}
	return s.ExerciseRepo.FindByID(exercise.ID)
}

func (s *ExerciseService) Update(exerciseID, userID uint, role model.UserRole, req ExerciseRequest) (*model.Exercise, error) {
	exercise, err := s.ExerciseRepo.FindByID(exerciseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.CreatorID != userID && role != model.Admin {
		return nil, util.ErrPermissionDenied
	}

	exercise.Title = req.Title
	exercise.Description = req.Description
	if req.Difficulty != 0 {
		exercise.Difficulty = req.Difficulty
	}
	if req.BaseXP != 0 {
		exercise.BaseXP = req.BaseXP
	}
	exercise.CodeTemplate = req.CodeTemplate
	exercise.LanguageID = req.LanguageID
	if req.IsPublished != nil {
		exercise.IsPublished = *req.IsPublished
	}

	if err := s.ExerciseRepo.Update(exercise); err != nil {
		return nil, err
	}
	return s.ExerciseRepo.FindByID(exercise.ID)
}

// List returns published exercises annotated with whether the requesting
// user already solved each one.
func (s *ExerciseService) List(userID uint, page, limit int) ([]ExerciseView, int64, error) {
	exercises, total, err := s.ExerciseRepo.ListPublished(page, limit)
	if err != nil {
		return nil, 0, err
	}

	solved, err := s.SubmissionRepo.AcceptedExerciseIDs(userID)
	if err != nil {
		return nil, 0, err
	}

	views := make([]ExerciseView, len(exercises))
	for i, e := range exercises {
		views[i] = ExerciseView{Exercise: e, Completed: solved[e.ID]}
	}
	return views, total, nil
}

func (s *ExerciseService) ListByCreator(creatorID uint, page, limit int) ([]model.Exercise, int64, error) {
	return s.ExerciseRepo.ListByCreator(creatorID, page, limit)
}

func (s *ExerciseService) GetByID(exerciseID, userID uint) (*ExerciseView, error) {
	exercise, err := s.ExerciseRepo.FindByID(exerciseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	return s.decorate(exercise, userID)
}

// GetByPublicCode resolves an exercise from its shareable code.
func (s *ExerciseService) GetByPublicCode(code string, userID uint) (*ExerciseView, error) {
	exercise, err := s.ExerciseRepo.FindByPublicCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	return s.decorate(exercise, userID)
}

func (s *ExerciseService) decorate(exercise *model.Exercise, userID uint) (*ExerciseView, error) {
	completed, err := s.SubmissionRepo.HasAccepted(userID, exercise.ID)
	if err != nil {
		return nil, err
	}

	if exercise.CodeTemplate == "" {
		lang := judge0.ExerciseLanguage{}
		if exercise.Language != nil {
			lang.Slug = exercise.Language.Slug
			lang.Name = exercise.Language.Name
		}
		exercise.CodeTemplate = judge0.DefaultTemplateForExercise(lang)
	}

	return &ExerciseView{Exercise: *exercise, Completed: completed}, nil
}

func (s *ExerciseService) Languages() ([]model.Language, error) {
	return s.LanguageRepo.List()
}
