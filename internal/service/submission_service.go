package service

import (
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/pkg/logger"
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// speedBonusWindow is how fast an exercise must be solved to earn the
	// bonus on top of its base XP.
	speedBonusWindow = 10 * time.Minute
	speedBonusRate   = 0.25

	leaderboardKey = "leaderboard:xp"
)

type SubmissionService struct {
	SubmissionRepo *repository.SubmissionRepository
	UserRepo       *repository.UserRepository
	Redis          *redis.Client
}

func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
) *SubmissionService {
	return &SubmissionService{
		SubmissionRepo: submissionRepo,
		UserRepo:       userRepo,
		Redis:          rdb,
	}
}

// Create records an accepted submission and awards XP. The sandbox already
// approved the code before this is called, so the submission lands as
// ACCEPTED. XP is awarded only on the first acceptance per exercise; a
// re-solve is recorded but scores zero.
func (s *SubmissionService) Create(ctx context.Context, userID uint, exercise *model.Exercise, code string, timeSpentMs int64) (*model.Submission, error) {
	alreadySolved, err := s.SubmissionRepo.HasAccepted(userID, exercise.ID)
	if err != nil {
		return nil, err
	}

	score := 0
	if !alreadySolved {
		score = ScoreFor(exercise.BaseXP, timeSpentMs)
	}

	submission := &model.Submission{
		UserID:      userID,
		ExerciseID:  exercise.ID,
		Code:        code,
		Score:       score,
		TimeSpentMs: timeSpentMs,
		Status:      model.SubmissionAccepted,
	}
	if err := s.SubmissionRepo.Create(submission); err != nil {
		return nil, err
	}

	if score > 0 {
		if err := s.UserRepo.UpdateXP(userID, score); err != nil {
			// The submission row exists; losing the XP increment is worse
			// than a duplicate submit, so surface it.
			return nil, err
		}
		s.bumpLeaderboard(ctx, userID, score)
	}

	return submission, nil
}

// ScoreFor computes the XP value of an accepted solve: the exercise's base
// XP plus a 25% bonus for finishing inside ten minutes.
func ScoreFor(baseXP int, timeSpentMs int64) int {
	score := baseXP
	if timeSpentMs > 0 && timeSpentMs < speedBonusWindow.Milliseconds() {
		score += int(float64(baseXP) * speedBonusRate)
	}
	return score
}

func (s *SubmissionService) ListByUser(userID uint, page, limit int) ([]model.Submission, int64, error) {
	return s.SubmissionRepo.ListByUser(userID, page, limit)
}

func (s *SubmissionService) HasAccepted(userID, exerciseID uint) (bool, error) {
	return s.SubmissionRepo.HasAccepted(userID, exerciseID)
}

// bumpLeaderboard keeps the Redis ranking in step with the users table.
// Redis being down never fails a submit.
func (s *SubmissionService) bumpLeaderboard(ctx context.Context, userID uint, score int) {
	if s.Redis == nil {
		return
	}
	member := strconv.FormatUint(uint64(userID), 10)
	if err := s.Redis.ZIncrBy(ctx, leaderboardKey, float64(score), member).Err(); err != nil {
		logger.Log.Warn("failed to update leaderboard cache",
			zap.Uint("userId", userID),
			zap.Error(err))
	}
}
