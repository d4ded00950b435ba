package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/leadpilot/leads-api/internal/service"
	"go.uber.org/zap"
)

// UserHandler handles admin-only account management
type UserHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers godoc
// @Summary List accounts
// @Tags Users
// @Produce json
// @Success 200 {array} domain.UserDTO
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create an account
// @Description Creates an account with the shared default password; a change is forced on first login
// @Tags Users
// @Accept json
// @Produce json
// @Param request body domain.CreateUserRequest true "Account data"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Username and display name are required")
		return
	}
	if req.Username == "" || req.DisplayName == "" {
		respondWithError(w, http.StatusBadRequest, "Username and display name are required")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "Username already exists")
			return
		}
		h.logger.Error("failed to create user", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Update an account's display name, username and role
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body domain.UpdateUserRequest true "Account data"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Display name and username are required")
		return
	}
	if req.DisplayName == "" || req.Username == "" {
		respondWithError(w, http.StatusBadRequest, "Display name and username are required")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.userService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, "Username already exists")
			return
		}
		h.respondUserError(w, err, "failed to update user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete an account
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} domain.SuccessResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		h.respondUserError(w, err, "failed to delete user")
		return
	}

	respondJSON(w, http.StatusOK, domain.SuccessResponse{Success: true})
}

// ResetPassword godoc
// @Summary Reset an account's password to the shared default
// @Description The account is flagged to change its password on next login
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} domain.SuccessResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.userService.ResetPassword(r.Context(), id); err != nil {
		h.respondUserError(w, err, "failed to reset password")
		return
	}

	respondJSON(w, http.StatusOK, domain.SuccessResponse{Success: true})
}

func (h *UserHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return uuid.Nil, false
	}
	return id, true
}

func (h *UserHandler) respondUserError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, service.ErrUserNotFound) {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	h.logger.Error(logMsg, zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}
