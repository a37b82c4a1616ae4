package repository

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/ticket-bot/internal/domain"
)

type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User // key: TelegramID
	nextID int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, telegramID int64, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user, exists := m.users[telegramID]; exists {
		user.Username = username
		return user, nil
	}

	user := &domain.User{
		ID:         m.nextID,
		TelegramID: telegramID,
		Username:   username,
		CreatedAt:  time.Now(),
	}
	m.nextID++
	m.users[telegramID] = user
	return user, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if user, exists := m.users[telegramID]; exists {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.TelegramID]; !exists {
		return domain.ErrUserNotFound
	}
	m.users[user.TelegramID] = user
	return nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.TelegramID]; exists {
		return domain.ErrUserExists
	}

	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	m.users[user.TelegramID] = user
	return nil
}

type MockSearchRepository struct {
	mu      sync.RWMutex
	records []domain.SearchRecord
	nextID  int64

	// Err, when set, is returned by every call.
	Err error
}

func NewMockSearchRepository() *MockSearchRepository {
	return &MockSearchRepository{nextID: 1}
}

func (m *MockSearchRepository) Create(ctx context.Context, record *domain.SearchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	record.ID = m.nextID
	m.nextID++
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	m.records = append(m.records, *record)
	return nil
}

func (m *MockSearchRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.SearchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}

	result := make([]domain.SearchRecord, 0)
	for i := len(m.records) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		if m.records[i].UserID == userID {
			result = append(result, m.records[i])
		}
	}
	return result, nil
}

// Records returns a copy of everything stored, oldest first.
func (m *MockSearchRepository) Records() []domain.SearchRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.SearchRecord, len(m.records))
	copy(out, m.records)
	return out
}
