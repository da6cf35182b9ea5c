package service

import (
	"codequest_backend/internal/leveling"
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
)

type UserService struct {
	UserRepo       *repository.UserRepository
	SubmissionRepo *repository.SubmissionRepository
	Storage        *StorageService
}

func NewUserService(
	userRepo *repository.UserRepository,
	submissionRepo *repository.SubmissionRepository,
	storage *StorageService,
) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		SubmissionRepo: submissionRepo,
		Storage:        storage,
	}
}

// Profile is the user's public view: account data plus everything derived
// from their XP total.
type Profile struct {
	User         *model.User       `json:"user"`
	CurrentLevel int               `json:"currentLevel"`
	NextLevelXP  int               `json:"nextLevelXp"`
	Progress     leveling.Progress `json:"progress"`
	SolvedCount  int64             `json:"solvedCount"`
}

func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	solved, err := s.SubmissionRepo.CountAcceptedByUser(userID)
	if err != nil {
		return nil, err
	}

	level := leveling.DeriveLevelFromXP(user.XP, leveling.DefaultMaxLevel)

	return &Profile{
		User:         user,
		CurrentLevel: level,
		NextLevelXP:  leveling.CumulativeForLevel(level + 1),
		Progress:     leveling.ProgressToNextLevel(user.XP, level),
		SolvedCount:  solved,
	}, nil
}

func (s *UserService) UpdateName(userID uint, name string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar stores the image and points the user record at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(filename)
	objectName := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)

	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}
