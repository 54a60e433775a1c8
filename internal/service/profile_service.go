package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/martin0965432/SmartView/internal/models"
	"github.com/martin0965432/SmartView/internal/repository"
)

var ErrInvalidProfile = errors.New("invalid profile")

// ProfileService combines the account with locally stored preferences
type ProfileService struct {
	users repository.UserRepository
	prefs repository.PreferenceStore
}

func NewProfileService(users repository.UserRepository, prefs repository.PreferenceStore) *ProfileService {
	return &ProfileService{
		users: users,
		prefs: prefs,
	}
}

// GetProfile returns the profile. A missing photo preference is not an error.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	path, err := s.prefs.GetPhotoPath(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrPreferenceNotFound) {
		return nil, err
	}

	return &models.Profile{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		PhotoURL:       user.PhotoURL,
		LocalPhotoPath: path,
	}, nil
}

// UpdateDisplayName sets the account name
func (s *ProfileService) UpdateDisplayName(ctx context.Context, userID, name string) (*models.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}

	if err := s.users.UpdateName(ctx, userID, name); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// SetPhotoPath remembers the path of the photo the user picked
func (s *ProfileService) SetPhotoPath(ctx context.Context, userID, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%w: photo path is required", ErrInvalidProfile)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.prefs.SetPhotoPath(ctx, userID, path)
}

// ClearPhotoPath forgets the stored photo path
func (s *ProfileService) ClearPhotoPath(ctx context.Context, userID string) error {
	return s.prefs.ClearPhotoPath(ctx, userID)
}
