package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leadpilot/leads-api/internal/auth"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/leadpilot/leads-api/internal/service"
	"go.uber.org/zap"
)

// AuthHandler handles login and password changes
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login godoc
// @Summary Log in with username and password
// @Description Verifies credentials and returns a session token with the user profile
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Description Sets a new password, clears the forced-change flag and returns a fresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.ChangePasswordRequest true "New password"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req domain.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	result, err := h.authService.ChangePassword(r.Context(), userCtx.UserID, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			respondWithError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, service.ErrDefaultPassword):
			respondWithError(w, http.StatusBadRequest, "Please choose a different password")
		case errors.Is(err, service.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("password change failed", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to change password")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}
