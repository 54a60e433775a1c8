package models

import "time"

// User is an email/password account
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	PhotoURL     string    `json:"photoUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is what the profile screen shows: account data plus the locally
// chosen photo path kept in the preference store
type Profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PhotoURL       string `json:"photoUrl,omitempty"`
	LocalPhotoPath string `json:"localPhotoPath,omitempty"`
}
