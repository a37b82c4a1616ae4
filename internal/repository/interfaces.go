package repository

import (
	"context"

	"github.com/kitbuilder587/ticket-bot/internal/domain"
)

type UserRepository interface {
	GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Create(ctx context.Context, user *domain.User) error
}

// SearchRepository - история поисков пользователя
type SearchRepository interface {
	Create(ctx context.Context, record *domain.SearchRecord) error
	// ListRecent returns the newest records first.
	ListRecent(ctx context.Context, userID int64, limit int) ([]domain.SearchRecord, error)
}
