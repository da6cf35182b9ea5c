package service

import (
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

// AttemptService is the direct REST surface over saved drafts, for clients
// that manage their own editing loop instead of holding a server session.
type AttemptService struct {
	AttemptRepo *repository.AttemptRepository
}

func NewAttemptService(attemptRepo *repository.AttemptRepository) *AttemptService {
	return &AttemptService{AttemptRepo: attemptRepo}
}

// GetCurrent returns the saved draft, or ErrAttemptNotFound when the user
// has none for this exercise.
func (s *AttemptService) GetCurrent(ctx context.Context, userID, exerciseID uint) (*model.ChallengeAttempt, error) {
	attempt, err := s.AttemptRepo.GetCurrent(ctx, userID, exerciseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) Save(ctx context.Context, userID, exerciseID uint, code string, timeSpentMs int64) (*model.ChallengeAttempt, error) {
	return s.AttemptRepo.Upsert(ctx, &model.ChallengeAttempt{
		UserID:      userID,
		ExerciseID:  exerciseID,
		Code:        code,
		TimeSpentMs: timeSpentMs,
		Status:      model.AttemptInProgress,
	})
}

// Delete discards the draft. Deleting a missing draft succeeds.
func (s *AttemptService) Delete(ctx context.Context, userID, exerciseID uint) error {
	return s.AttemptRepo.Delete(ctx, userID, exerciseID)
}
