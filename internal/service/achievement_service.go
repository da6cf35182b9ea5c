package service

import (
	"codequest_backend/internal/leveling"
	"codequest_backend/internal/repository"
	"codequest_backend/pkg/logger"
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type AchievementService struct {
	UserRepo       *repository.UserRepository
	SubmissionRepo *repository.SubmissionRepository
	Redis          *redis.Client
}

func NewAchievementService(
	userRepo *repository.UserRepository,
	submissionRepo *repository.SubmissionRepository,
	rdb *redis.Client,
) *AchievementService {
	return &AchievementService{
		UserRepo:       userRepo,
		SubmissionRepo: submissionRepo,
		Redis:          rdb,
	}
}

type UserAchievements struct {
	TotalXP      int                `json:"totalXp"`
	CurrentLevel int                `json:"currentLevel"`
	NextLevelXP  int                `json:"nextLevelXp"`
	Progress     leveling.Progress  `json:"progress"`
	SolvedCount  int64              `json:"solvedCount"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"userId"`
	User   string `json:"user"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Avatar string `json:"avatar,omitempty"`
}

func (s *AchievementService) GetUserAchievements(ctx context.Context, userID uint) (*UserAchievements, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	solved, err := s.SubmissionRepo.CountAcceptedByUser(userID)
	if err != nil {
		return nil, err
	}

	leaderboard, err := s.GetLeaderboard(ctx, 10)
	if err != nil {
		return nil, err
	}

	level := leveling.DeriveLevelFromXP(user.XP, leveling.DefaultMaxLevel)

	return &UserAchievements{
		TotalXP:      user.XP,
		CurrentLevel: level,
		NextLevelXP:  leveling.CumulativeForLevel(level + 1),
		Progress:     leveling.ProgressToNextLevel(user.XP, level),
		SolvedCount:  solved,
		Leaderboard:  leaderboard,
	}, nil
}

// GetLeaderboard returns the top users by XP. The Redis sorted set is the
// fast path; an empty or unreachable cache falls back to the users table
// and reseeds the set.
func (s *AchievementService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if entries, ok := s.leaderboardFromCache(ctx, limit); ok {
		return entries, nil
	}

	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		entries[i] = LeaderboardEntry{
			Rank:   i + 1,
			UserID: user.ID,
			User:   user.Name,
			XP:     user.XP,
			Level:  leveling.DeriveLevelFromXP(user.XP, leveling.DefaultMaxLevel),
			Avatar: user.Avatar,
		}
	}

	s.seedLeaderboard(ctx, entries)
	return entries, nil
}

func (s *AchievementService) leaderboardFromCache(ctx context.Context, limit int) ([]LeaderboardEntry, bool) {
	if s.Redis == nil {
		return nil, false
	}

	ranked, err := s.Redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil || len(ranked) == 0 {
		return nil, false
	}

	ids := make([]uint, 0, len(ranked))
	for _, z := range ranked {
		member, _ := z.Member.(string)
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			return nil, false
		}
		ids = append(ids, uint(id))
	}

	users, err := s.UserRepo.FindByIDs(ids)
	if err != nil {
		return nil, false
	}
	byID := make(map[uint]int, len(users))
	for i, u := range users {
		byID[u.ID] = i
	}

	entries := make([]LeaderboardEntry, 0, len(ranked))
	for i, z := range ranked {
		idx, ok := byID[ids[i]]
		if !ok {
			continue
		}
		user := users[idx]
		entries = append(entries, LeaderboardEntry{
			Rank:   len(entries) + 1,
			UserID: user.ID,
			User:   user.Name,
			XP:     int(z.Score),
			Level:  leveling.DeriveLevelFromXP(int(z.Score), leveling.DefaultMaxLevel),
			Avatar: user.Avatar,
		})
	}
	return entries, true
}

func (s *AchievementService) seedLeaderboard(ctx context.Context, entries []LeaderboardEntry) {
	if s.Redis == nil || len(entries) == 0 {
		return
	}
	members := make([]*redis.Z, len(entries))
	for i, e := range entries {
		members[i] = &redis.Z{
			Score:  float64(e.XP),
			Member: strconv.FormatUint(uint64(e.UserID), 10),
		}
	}
	if err := s.Redis.ZAdd(ctx, leaderboardKey, members...).Err(); err != nil {
		logger.Log.Warn("failed to seed leaderboard cache", zap.Error(err))
	}
}
