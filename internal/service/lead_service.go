package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/auth"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/leadpilot/leads-api/internal/mapper"
	"github.com/leadpilot/leads-api/internal/repository"
	"go.uber.org/zap"
)

// noteActivityPreviewLen caps how much note text lands in the activity feed
const noteActivityPreviewLen = 50

type LeadService struct {
	leadRepo     *repository.LeadRepository
	noteRepo     *repository.NoteRepository
	taskRepo     *repository.TaskRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewLeadService(
	leadRepo *repository.LeadRepository,
	noteRepo *repository.NoteRepository,
	taskRepo *repository.TaskRepository,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		leadRepo:     leadRepo,
		noteRepo:     noteRepo,
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// List returns leads matching the filters with their nested collections
func (s *LeadService) List(ctx context.Context, filters *repository.LeadFilters) ([]domain.LeadDTO, error) {
	leads, err := s.leadRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}

	dtos := make([]domain.LeadDTO, len(leads))
	for i := range leads {
		dtos[i] = mapper.ToLeadDTO(&leads[i])
	}
	return dtos, nil
}

func (s *LeadService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// Create stores a new lead, filling defaults for omitted fields
// and recording a "Lead created" activity
func (s *LeadService) Create(ctx context.Context, req *domain.CreateLeadRequest) (*domain.LeadDTO, error) {
	lead := &domain.Lead{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		Status:     req.Status,
		Value:      req.Value,
		Source:     req.Source,
		AssignedTo: req.AssignedTo,
	}

	if lead.Status == "" {
		lead.Status = domain.LeadStatusNew
	}
	if lead.AssignedTo == "" {
		lead.AssignedTo = "Unassigned"
	}
	if req.Score != nil {
		lead.Score = *req.Score
	} else {
		// Placeholder fit score until real scoring exists: 60-100
		lead.Score = 60 + rand.Intn(41)
	}

	if userCtx, ok := auth.FromContext(ctx); ok {
		lead.CreatedBy = &userCtx.UserID
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	s.recordActivity(ctx, lead.ID, domain.ActivityTypeNote, "Lead created")

	s.logger.Info("lead created",
		zap.String("lead_id", lead.ID.String()),
		zap.String("name", lead.Name),
	)

	return s.GetByID(ctx, lead.ID)
}

// Update applies a partial update and records a generic update activity
func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateLeadRequest) (*domain.LeadDTO, error) {
	exists, err := s.leadRepo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check lead: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Value != nil {
		updates["value"] = *req.Value
	}
	if req.Source != nil {
		updates["source"] = *req.Source
	}
	if req.Score != nil {
		updates["score"] = *req.Score
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.LastContact != nil {
		lastContact, err := time.Parse(time.RFC3339, *req.LastContact)
		if err != nil {
			return nil, fmt.Errorf("invalid lastContact timestamp: %w", err)
		}
		updates["last_contact"] = lastContact
	}

	if len(updates) > 0 {
		if err := s.leadRepo.UpdateFields(ctx, id, updates); err != nil {
			if repository.IsNotFound(err) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to update lead: %w", err)
		}
	}

	s.recordActivity(ctx, id, domain.ActivityTypeNote, "Lead information updated")

	return s.GetByID(ctx, id)
}

// Archive toggles the archived flag and records the transition
func (s *LeadService) Archive(ctx context.Context, id uuid.UUID) (*domain.LeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	archived := !lead.Archived
	if err := s.leadRepo.SetArchived(ctx, id, archived); err != nil {
		return nil, fmt.Errorf("failed to archive lead: %w", err)
	}

	description := "Lead archived"
	if !archived {
		description = "Lead unarchived"
	}
	s.recordActivity(ctx, id, domain.ActivityTypeNote, description)

	s.logger.Info("lead archive toggled",
		zap.String("lead_id", id.String()),
		zap.Bool("archived", archived),
	)

	return s.GetByID(ctx, id)
}

// AddNote attaches a note authored by the current user and records a
// preview of it in the activity feed
func (s *LeadService) AddNote(ctx context.Context, leadID uuid.UUID, text string) (*domain.NoteDTO, error) {
	if err := s.requireLead(ctx, leadID); err != nil {
		return nil, err
	}

	author := "Unknown"
	if userCtx, ok := auth.FromContext(ctx); ok {
		author = userCtx.DisplayName
	}

	note := &domain.Note{
		LeadID: leadID,
		Text:   text,
		Author: author,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	preview := text
	if len(preview) > noteActivityPreviewLen {
		preview = preview[:noteActivityPreviewLen]
	}
	s.recordActivity(ctx, leadID, domain.ActivityTypeNote, "Note added: "+preview+"...")

	dto := mapper.ToNoteDTO(note)
	return &dto, nil
}

// AddTask attaches a follow-up task to the lead
func (s *LeadService) AddTask(ctx context.Context, leadID uuid.UUID, title string, dueDate time.Time) (*domain.TaskDTO, error) {
	if err := s.requireLead(ctx, leadID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		LeadID:  leadID,
		Title:   title,
		DueDate: dueDate,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

// ToggleTask flips a task's completion state
// The task must belong to the given lead
func (s *LeadService) ToggleTask(ctx context.Context, leadID, taskID uuid.UUID) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.GetByIDForLead(ctx, leadID, taskID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	task.Completed = !task.Completed
	if err := s.taskRepo.SetCompleted(ctx, task.ID, task.Completed); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

// AddActivity records an interaction on the lead's timeline
func (s *LeadService) AddActivity(ctx context.Context, leadID uuid.UUID, activityType domain.ActivityType, description string) (*domain.ActivityDTO, error) {
	if err := s.requireLead(ctx, leadID); err != nil {
		return nil, err
	}

	activity := &domain.Activity{
		LeadID:      leadID,
		Type:        activityType,
		Description: description,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	dto := mapper.ToActivityDTO(activity)
	return &dto, nil
}

func (s *LeadService) requireLead(ctx context.Context, leadID uuid.UUID) error {
	exists, err := s.leadRepo.Exists(ctx, leadID)
	if err != nil {
		return fmt.Errorf("failed to check lead: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

// recordActivity appends a timeline entry as a side effect; failures are
// logged rather than surfaced so the primary write still succeeds
func (s *LeadService) recordActivity(ctx context.Context, leadID uuid.UUID, activityType domain.ActivityType, description string) {
	activity := &domain.Activity{
		LeadID:      leadID,
		Type:        activityType,
		Description: description,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("lead_id", leadID.String()),
			zap.String("description", description),
			zap.Error(err),
		)
	}
}
