package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/martin0965432/SmartView/internal/middleware"
	"github.com/martin0965432/SmartView/internal/repository"
	"github.com/martin0965432/SmartView/internal/service"
)

type updateProfileRequest struct {
	Name string `json:"name"`
}

type photoPathRequest struct {
	Path string `json:"path"`
}

// ProfileHandler serves the signed-in user's profile. Every route sits
// behind middleware.RequireAuth.
type ProfileHandler struct {
	profileService *service.ProfileService
	log            *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService, log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		log:            log,
	}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.writeProfile(w, r, middleware.UserID(r.Context()))
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	profile, err := h.profileService.UpdateDisplayName(r.Context(), middleware.UserID(r.Context()), req.Name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile, h.log)
}

// SetPhoto handles PUT /api/profile/photo
func (h *ProfileHandler) SetPhoto(w http.ResponseWriter, r *http.Request) {
	var req photoPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	userID := middleware.UserID(r.Context())
	if err := h.profileService.SetPhotoPath(r.Context(), userID, req.Path); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeProfile(w, r, userID)
}

// ClearPhoto handles DELETE /api/profile/photo
func (h *ProfileHandler) ClearPhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if err := h.profileService.ClearPhotoPath(r.Context(), userID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeProfile(w, r, userID)
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, profile, h.log)
}

func (h *ProfileHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidProfile):
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
	case errors.Is(err, repository.ErrUserNotFound):
		WriteError(w, http.StatusNotFound, "User not found", h.log)
	default:
		h.log.Error("profile request failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}
