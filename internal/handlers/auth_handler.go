package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/martin0965432/SmartView/internal/auth"
	"github.com/martin0965432/SmartView/internal/middleware"
	"github.com/martin0965432/SmartView/internal/models"
	"github.com/martin0965432/SmartView/internal/repository"
	"github.com/martin0965432/SmartView/internal/service"
)

const (
	refreshTokenCookie = "refresh_token"
	refreshCookiePath  = "/api/auth/refresh"
)

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse returns the access token in the body too, for clients that
// send it as a bearer token instead of a cookie
type authResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// AuthHandler handles email/password sign-up and sign-in
type AuthHandler struct {
	authService   *service.AuthService
	secureCookies bool
	log           *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, secureCookies bool, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
		log:           log,
	}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	session, err := h.authService.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignUp), errors.Is(err, auth.ErrPasswordTooShort):
			WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		case errors.Is(err, repository.ErrEmailTaken):
			WriteError(w, http.StatusConflict, "Email already registered", h.log)
		default:
			h.log.Error("failed to sign up", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	h.log.Info("user signed up", "user_id", session.User.ID)
	h.setAuthCookies(w, session.Tokens)
	WriteJSON(w, http.StatusCreated, authResponse{
		User:        session.User,
		AccessToken: session.Tokens.AccessToken,
		ExpiresAt:   session.Tokens.AccessExpiresAt,
	}, h.log)
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	session, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "Invalid email or password", h.log)
			return
		}
		h.log.Error("failed to sign in", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	h.setAuthCookies(w, session.Tokens)
	WriteJSON(w, http.StatusOK, authResponse{
		User:        session.User,
		AccessToken: session.Tokens.AccessToken,
		ExpiresAt:   session.Tokens.AccessExpiresAt,
	}, h.log)
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "No refresh token", h.log)
		return
	}

	session, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.clearAuthCookies(w)
		switch {
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken),
			errors.Is(err, repository.ErrUserNotFound):
			WriteError(w, http.StatusUnauthorized, "Invalid refresh token", h.log)
		default:
			h.log.Error("failed to refresh token", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	h.setAuthCookies(w, session.Tokens)
	WriteJSON(w, http.StatusOK, authResponse{
		User:        session.User,
		AccessToken: session.Tokens.AccessToken,
		ExpiresAt:   session.Tokens.AccessExpiresAt,
	}, h.log)
}

// SignOut handles POST /api/auth/signout. Tokens are stateless, so signing
// out only clears the cookies.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.clearAuthCookies(w)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Signed out"}, h.log)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "Unauthorized", h.log)
		return
	}

	user, err := h.authService.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			WriteError(w, http.StatusNotFound, "User not found", h.log)
			return
		}
		h.log.Error("failed to load user", "user_id", userID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, user, h.log)
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, tokens service.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  tokens.AccessExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    tokens.RefreshToken,
		Path:     refreshCookiePath,
		Expires:  tokens.RefreshExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
	})
}
