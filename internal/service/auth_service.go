package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/martin0965432/SmartView/internal/auth"
	"github.com/martin0965432/SmartView/internal/models"
	"github.com/martin0965432/SmartView/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSignUp      = errors.New("invalid sign-up details")
)

// TokenPair is the set of tokens issued on sign-in
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Session is a signed-in user and their tokens
type Session struct {
	User   *models.User
	Tokens TokenPair
}

// AuthService handles email/password accounts
type AuthService struct {
	users repository.UserRepository
	jwt   *auth.JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(users repository.UserRepository, jwt *auth.JWTService) *AuthService {
	return &AuthService{
		users: users,
		jwt:   jwt,
	}
}

// SignUp creates an account and signs it in
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSignUp)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email is not valid", ErrInvalidSignUp)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.newSession(user)
}

// SignIn checks the password and issues new tokens. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Refresh issues a new token pair from a refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	userID, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.newSession(user)
}

// Me returns the account behind a user ID taken from a validated token
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) newSession(user *models.User) (*Session, error) {
	access, accessExp, err := s.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, refreshExp, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &Session{
		User: user,
		Tokens: TokenPair{
			AccessToken:      access,
			AccessExpiresAt:  accessExp,
			RefreshToken:     refresh,
			RefreshExpiresAt: refreshExp,
		},
	}, nil
}
