package repository

import (
	"context"
	"errors"
	"sync"
)

var ErrPreferenceNotFound = errors.New("preference not found")

// PreferenceStore keeps per-user profile preferences. The only preference
// today is the path of a profile photo the user picked on their device.
type PreferenceStore interface {
	GetPhotoPath(ctx context.Context, userID string) (string, error)
	SetPhotoPath(ctx context.Context, userID, path string) error
	ClearPhotoPath(ctx context.Context, userID string) error
}

type InMemoryPreferenceStore struct {
	mu         sync.RWMutex
	photoPaths map[string]string
}

func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{
		photoPaths: make(map[string]string),
	}
}

func (s *InMemoryPreferenceStore) GetPhotoPath(ctx context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.photoPaths[userID]
	if !ok {
		return "", ErrPreferenceNotFound
	}
	return path, nil
}

func (s *InMemoryPreferenceStore) SetPhotoPath(ctx context.Context, userID, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.photoPaths[userID] = path
	return nil
}

// ClearPhotoPath removes the stored path; clearing a missing path is not an error
func (s *InMemoryPreferenceStore) ClearPhotoPath(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.photoPaths, userID)
	return nil
}
