package mapper

import (
	"time"

	"github.com/leadpilot/leads-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:                 user.ID,
		Username:           user.Username,
		DisplayName:        user.DisplayName,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          formatTime(user.CreatedAt),
	}
}

// ToLeadDTO converts Lead to LeadDTO
// Nested collections are always non-nil so they serialize as [] not null
func ToLeadDTO(lead *domain.Lead) domain.LeadDTO {
	dto := domain.LeadDTO{
		ID:         lead.ID,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Company:    lead.Company,
		Status:     lead.Status,
		Value:      lead.Value,
		Source:     lead.Source,
		Score:      lead.Score,
		AssignedTo: lead.AssignedTo,
		Archived:   lead.Archived,
		CreatedAt:  formatTime(lead.CreatedAt),
		UpdatedAt:  formatTime(lead.UpdatedAt),
		Notes:      make([]domain.NoteDTO, len(lead.Notes)),
		Tasks:      make([]domain.TaskDTO, len(lead.Tasks)),
		Activities: make([]domain.ActivityDTO, len(lead.Activities)),
	}

	if lead.LastContact != nil {
		lastContact := formatTime(*lead.LastContact)
		dto.LastContact = &lastContact
	}

	for i, note := range lead.Notes {
		dto.Notes[i] = ToNoteDTO(&note)
	}
	for i, task := range lead.Tasks {
		dto.Tasks[i] = ToTaskDTO(&task)
	}
	for i, activity := range lead.Activities {
		dto.Activities[i] = ToActivityDTO(&activity)
	}

	return dto
}

// ToNoteDTO converts Note to NoteDTO
func ToNoteDTO(note *domain.Note) domain.NoteDTO {
	return domain.NoteDTO{
		ID:        note.ID,
		Text:      note.Text,
		Author:    note.Author,
		CreatedAt: formatTime(note.CreatedAt),
	}
}

// ToTaskDTO converts Task to TaskDTO
func ToTaskDTO(task *domain.Task) domain.TaskDTO {
	return domain.TaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		DueDate:   formatTime(task.DueDate),
		Completed: task.Completed,
	}
}

// ToActivityDTO converts Activity to ActivityDTO
func ToActivityDTO(activity *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:          activity.ID,
		Type:        activity.Type,
		Description: activity.Description,
		Timestamp:   formatTime(activity.Timestamp),
	}
}
