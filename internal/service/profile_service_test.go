package service

import (
	"context"
	"testing"
	"time"

	"github.com/martin0965432/SmartView/internal/models"
	"github.com/martin0965432/SmartView/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPreferences struct {
	repository.PreferenceStore
}

func (failingPreferences) GetPhotoPath(ctx context.Context, userID string) (string, error) {
	return "", errBroker
}

func newProfileFixture(t *testing.T) (*ProfileService, *repository.InMemoryUserRepository, string) {
	users := repository.NewInMemoryUserRepository()
	user := &models.User{
		ID:        "user-1",
		Email:     "ana@example.com",
		Name:      "Ana",
		PhotoURL:  "https://example.com/ana.png",
		CreatedAt: time.Now(),
	}
	require.NoError(t, users.Create(testContext(t), user))
	return NewProfileService(users, repository.NewInMemoryPreferenceStore()), users, user.ID
}

func TestProfileService_GetProfile(t *testing.T) {
	svc, _, userID := newProfileFixture(t)

	profile, err := svc.GetProfile(testContext(t), userID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.Name)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.Equal(t, "https://example.com/ana.png", profile.PhotoURL)
	assert.Empty(t, profile.LocalPhotoPath)

	_, err = svc.GetProfile(testContext(t), "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestProfileService_UpdateDisplayName(t *testing.T) {
	svc, _, userID := newProfileFixture(t)

	profile, err := svc.UpdateDisplayName(testContext(t), userID, "  Ana María ")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", profile.Name)

	_, err = svc.UpdateDisplayName(testContext(t), userID, "   ")
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = svc.UpdateDisplayName(testContext(t), "missing", "Luis")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestProfileService_PhotoPath(t *testing.T) {
	svc, _, userID := newProfileFixture(t)
	ctx := testContext(t)

	require.NoError(t, svc.SetPhotoPath(ctx, userID, "/storage/emulated/0/DCIM/me.jpg"))

	profile, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "/storage/emulated/0/DCIM/me.jpg", profile.LocalPhotoPath)

	require.NoError(t, svc.ClearPhotoPath(ctx, userID))

	profile, err = svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, profile.LocalPhotoPath)

	assert.ErrorIs(t, svc.SetPhotoPath(ctx, userID, " "), ErrInvalidProfile)
	assert.ErrorIs(t, svc.SetPhotoPath(ctx, "missing", "/p.jpg"), repository.ErrUserNotFound)
}

func TestProfileService_PreferenceStoreError(t *testing.T) {
	_, users, userID := newProfileFixture(t)
	svc := NewProfileService(users, failingPreferences{})

	_, err := svc.GetProfile(testContext(t), userID)
	assert.ErrorIs(t, err, errBroker)
}
