package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/martin0965432/SmartView/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepository stores email/password accounts. Emails are compared
// case-insensitively.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateName(ctx context.Context, id, name string) error
}

// InMemoryUserRepository keeps accounts in process memory
type InMemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]models.User
	byEmail map[string]string
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(user.Email)
	if _, taken := r.byEmail[key]; taken {
		return ErrEmailTaken
	}
	r.users[user.ID] = *user
	r.byEmail[key] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.users[id]
	return &user, nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *InMemoryUserRepository) UpdateName(ctx context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.Name = name
	r.users[id] = user
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
