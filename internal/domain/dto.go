package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses; timestamps are ISO 8601 strings

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges operations with no payload
type SuccessResponse struct {
	Success bool `json:"success"`
}

type UserDTO struct {
	ID                 uuid.UUID `json:"id"`
	Username           string    `json:"username"`
	DisplayName        string    `json:"displayName"`
	Role               UserRole  `json:"role"`
	MustChangePassword bool      `json:"mustChangePassword"`
	CreatedAt          string    `json:"createdAt"`
}

type LeadDTO struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Company     string        `json:"company,omitempty"`
	Status      LeadStatus    `json:"status"`
	Value       float64       `json:"value"`
	Source      string        `json:"source,omitempty"`
	Score       int           `json:"score"`
	AssignedTo  string        `json:"assignedTo"`
	LastContact *string       `json:"lastContact,omitempty"`
	Archived    bool          `json:"archived"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
	Notes       []NoteDTO     `json:"notes"`
	Tasks       []TaskDTO     `json:"tasks"`
	Activities  []ActivityDTO `json:"activities"`
}

type NoteDTO struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt string    `json:"createdAt"`
}

type TaskDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	DueDate   string    `json:"dueDate"`
	Completed bool      `json:"completed"`
}

type ActivityDTO struct {
	ID          uuid.UUID    `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Timestamp   string       `json:"timestamp"`
}

// Auth requests/responses

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// Lead requests

type CreateLeadRequest struct {
	Name       string     `json:"name" validate:"required,max=200"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Phone      string     `json:"phone" validate:"omitempty,max=50"`
	Company    string     `json:"company" validate:"omitempty,max=200"`
	Status     LeadStatus `json:"status" validate:"omitempty,oneof=new contacted qualified proposal won lost"`
	Value      float64    `json:"value" validate:"omitempty,gte=0"`
	Source     string     `json:"source" validate:"required,max=100"`
	Score      *int       `json:"score" validate:"omitempty,gte=0,lte=100"`
	AssignedTo string     `json:"assignedTo" validate:"omitempty,max=200"`
}

type UpdateLeadRequest struct {
	Name        *string     `json:"name" validate:"omitempty,max=200"`
	Email       *string     `json:"email" validate:"omitempty,email"`
	Phone       *string     `json:"phone" validate:"omitempty,max=50"`
	Company     *string     `json:"company" validate:"omitempty,max=200"`
	Status      *LeadStatus `json:"status" validate:"omitempty,oneof=new contacted qualified proposal won lost"`
	Value       *float64    `json:"value" validate:"omitempty,gte=0"`
	Source      *string     `json:"source" validate:"omitempty,max=100"`
	Score       *int        `json:"score" validate:"omitempty,gte=0,lte=100"`
	AssignedTo  *string     `json:"assignedTo" validate:"omitempty,max=200"`
	LastContact *string     `json:"lastContact" validate:"omitempty"`
}

type AddNoteRequest struct {
	Text string `json:"text" validate:"required"`
}

type AddTaskRequest struct {
	Title   string `json:"title" validate:"required,max=500"`
	DueDate string `json:"dueDate" validate:"required"`
}

type AddActivityRequest struct {
	Type        ActivityType `json:"type" validate:"required,oneof=email call meeting note linkedin demo proposal contract follow-up pricing objection"`
	Description string       `json:"description" validate:"required,max=1000"`
}

// User admin requests

type CreateUserRequest struct {
	Username    string   `json:"username" validate:"required,max=100"`
	DisplayName string   `json:"displayName" validate:"required,max=200"`
	Role        UserRole `json:"role" validate:"omitempty,oneof=admin user"`
}

// UpdateUserRequest replaces the account's profile fields wholesale
type UpdateUserRequest struct {
	DisplayName string   `json:"displayName" validate:"required,max=200"`
	Username    string   `json:"username" validate:"required,max=100"`
	Role        UserRole `json:"role" validate:"omitempty,oneof=admin user"`
}
