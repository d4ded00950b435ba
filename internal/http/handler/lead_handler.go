package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/leadpilot/leads-api/internal/repository"
	"github.com/leadpilot/leads-api/internal/service"
	"go.uber.org/zap"
)

// LeadHandler handles HTTP requests for leads and their nested resources
type LeadHandler struct {
	leadService *service.LeadService
	logger      *zap.Logger
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		logger:      logger,
	}
}

// queryFilter maps a query value to an optional filter
// Empty strings and the legacy "all" sentinel mean unfiltered
func queryFilter(value string) *string {
	if value == "" || value == "all" {
		return nil
	}
	return &value
}

// ListLeads godoc
// @Summary List leads
// @Description Get leads with nested notes, tasks and activities, newest first
// @Tags Leads
// @Produce json
// @Param status query string false "Filter by status ('all' for no filter)"
// @Param source query string false "Filter by source ('all' for no filter)"
// @Param assignedTo query string false "Filter by assignee ('all' for no filter)"
// @Param search query string false "Case-insensitive match on name, company or email"
// @Param archived query bool false "Show archived leads" default(false)
// @Success 200 {array} domain.LeadDTO
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads [get]
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := &repository.LeadFilters{
		Search:   q.Get("search"),
		Archived: q.Get("archived") == "true",
	}
	if status := queryFilter(q.Get("status")); status != nil {
		s := domain.LeadStatus(*status)
		filters.Status = &s
	}
	filters.Source = queryFilter(q.Get("source"))
	filters.AssignedTo = queryFilter(q.Get("assignedTo"))

	leads, err := h.leadService.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list leads", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list leads")
		return
	}

	respondJSON(w, http.StatusOK, leads)
}

// GetLead godoc
// @Summary Get a single lead
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} domain.LeadDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id} [get]
func (h *LeadHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}

	lead, err := h.leadService.GetByID(r.Context(), id)
	if err != nil {
		h.respondLeadError(w, err, "failed to get lead")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// CreateLead godoc
// @Summary Create a lead
// @Description Creates a lead; omitted fields get defaults (status new, assignee Unassigned, random score)
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body domain.CreateLeadRequest true "Lead data"
// @Success 201 {object} domain.LeadDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads [post]
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Name and source are required")
		return
	}
	if req.Name == "" || req.Source == "" {
		respondWithError(w, http.StatusBadRequest, "Name and source are required")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create lead", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	respondJSON(w, http.StatusCreated, lead)
}

// UpdateLead godoc
// @Summary Update a lead
// @Description Applies a partial update; only provided fields change
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body domain.UpdateLeadRequest true "Fields to update"
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id} [put]
func (h *LeadHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	lead, err := h.leadService.Update(r.Context(), id, &req)
	if err != nil {
		h.respondLeadError(w, err, "failed to update lead")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// ArchiveLead godoc
// @Summary Toggle a lead's archived state
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} domain.LeadDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/archive [patch]
func (h *LeadHandler) ArchiveLead(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}

	lead, err := h.leadService.Archive(r.Context(), id)
	if err != nil {
		h.respondLeadError(w, err, "failed to archive lead")
		return
	}

	respondJSON(w, http.StatusOK, lead)
}

// AddNote godoc
// @Summary Add a note to a lead
// @Description Attaches a note authored by the current user and records an activity preview
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body domain.AddNoteRequest true "Note text"
// @Success 201 {object} domain.NoteDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/notes [post]
func (h *LeadHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}

	var req domain.AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Note text is required")
		return
	}
	if req.Text == "" {
		respondWithError(w, http.StatusBadRequest, "Note text is required")
		return
	}

	note, err := h.leadService.AddNote(r.Context(), id, req.Text)
	if err != nil {
		h.respondLeadError(w, err, "failed to add note")
		return
	}

	respondJSON(w, http.StatusCreated, note)
}

// AddTask godoc
// @Summary Add a task to a lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body domain.AddTaskRequest true "Task data"
// @Success 201 {object} domain.TaskDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/tasks [post]
func (h *LeadHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}

	var req domain.AddTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Title and due date are required")
		return
	}
	if req.Title == "" || req.DueDate == "" {
		respondWithError(w, http.StatusBadRequest, "Title and due date are required")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid due date")
		return
	}

	task, err := h.leadService.AddTask(r.Context(), id, req.Title, dueDate)
	if err != nil {
		h.respondLeadError(w, err, "failed to add task")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// ToggleTask godoc
// @Summary Toggle a task's completion state
// @Tags Leads
// @Produce json
// @Param id path string true "Lead ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} domain.TaskDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/tasks/{taskId} [patch]
func (h *LeadHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Task not found")
		return
	}

	task, err := h.leadService.ToggleTask(r.Context(), id, taskID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Task not found")
			return
		}
		h.logger.Error("failed to toggle task", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// AddActivity godoc
// @Summary Record an activity on a lead
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body domain.AddActivityRequest true "Activity data"
// @Success 201 {object} domain.ActivityDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /leads/{id}/activities [post]
func (h *LeadHandler) AddActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := h.leadID(w, r)
	if !ok {
		return
	}

	var req domain.AddActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Type and description are required")
		return
	}
	if req.Type == "" || req.Description == "" {
		respondWithError(w, http.StatusBadRequest, "Type and description are required")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	activity, err := h.leadService.AddActivity(r.Context(), id, req.Type, req.Description)
	if err != nil {
		h.respondLeadError(w, err, "failed to add activity")
		return
	}

	respondJSON(w, http.StatusCreated, activity)
}

// leadID parses the {id} path parameter; unparseable IDs behave like
// missing leads
func (h *LeadHandler) leadID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Lead not found")
		return uuid.Nil, false
	}
	return id, true
}

func (h *LeadHandler) respondLeadError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, service.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "Lead not found")
		return
	}
	h.logger.Error(logMsg, zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}

// parseDate accepts RFC 3339 timestamps or bare dates
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
