package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kitbuilder587/ticket-bot/internal/domain"
	"github.com/kitbuilder587/ticket-bot/internal/repository"
)

type UserService interface {
	GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error)
}

type userService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

// GetOrCreate upserts the chat's user in one repository call, so two
// messages arriving together cannot both try to create it.
func (s *userService) GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")

	user, err := s.repo.GetOrCreate(ctx, telegramID, username)
	if err != nil {
		return nil, fmt.Errorf("get or create user %d: %w", telegramID, err)
	}

	s.logger.Debug("user resolved",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("user_id", user.ID),
		zap.String("username", username),
	)

	return user, nil
}
