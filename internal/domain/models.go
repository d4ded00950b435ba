package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
// IDs are generated in BeforeCreate so the same models work against
// Postgres and the in-memory sqlite database used by tests
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID primary key if one wasn't set
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserRole represents the access level of an account
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User represents an account in the credential store
type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	Username           string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	PasswordHash       string    `gorm:"type:varchar(255);not null;column:password_hash"`
	DisplayName        string    `gorm:"type:varchar(200);not null;column:display_name"`
	Role               UserRole  `gorm:"type:varchar(20);not null;default:'user'"`
	MustChangePassword bool      `gorm:"not null;default:false;column:must_change_password"`
	CreatedAt          time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID primary key if one wasn't set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin returns true if the account has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// LeadStatus represents the pipeline stage of a lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusProposal  LeadStatus = "proposal"
	LeadStatusWon       LeadStatus = "won"
	LeadStatusLost      LeadStatus = "lost"
)

// Lead represents a sales lead with its nested history
type Lead struct {
	BaseModel
	Name        string     `gorm:"type:varchar(200);not null;index"`
	Email       string     `gorm:"type:varchar(255)"`
	Phone       string     `gorm:"type:varchar(50)"`
	Company     string     `gorm:"type:varchar(200);index"`
	Status      LeadStatus `gorm:"type:varchar(50);not null;default:'new';index"`
	Value       float64    `gorm:"not null;default:0"`
	Source      string     `gorm:"type:varchar(100);index"`
	Score       int        `gorm:"not null;default:0"`
	AssignedTo  string     `gorm:"type:varchar(200);not null;default:'Unassigned';column:assigned_to;index"`
	LastContact *time.Time `gorm:"column:last_contact"`
	Archived    bool       `gorm:"not null;default:false;index"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid;column:created_by"`
	Notes       []Note     `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
	Tasks       []Task     `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
	Activities  []Activity `gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
}

// Note represents a free-text annotation on a lead
type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	LeadID    uuid.UUID `gorm:"type:uuid;not null;index;column:lead_id"`
	Text      string    `gorm:"type:text;not null"`
	Author    string    `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID primary key if one wasn't set
func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// Task represents a follow-up item attached to a lead
type Task struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	LeadID    uuid.UUID `gorm:"type:uuid;not null;index;column:lead_id"`
	Title     string    `gorm:"type:varchar(500);not null"`
	DueDate   time.Time `gorm:"not null;column:due_date;index"`
	Completed bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID primary key if one wasn't set
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ActivityType represents the kind of interaction recorded on a lead
type ActivityType string

const (
	ActivityTypeEmail     ActivityType = "email"
	ActivityTypeCall      ActivityType = "call"
	ActivityTypeMeeting   ActivityType = "meeting"
	ActivityTypeNote      ActivityType = "note"
	ActivityTypeLinkedIn  ActivityType = "linkedin"
	ActivityTypeDemo      ActivityType = "demo"
	ActivityTypeProposal  ActivityType = "proposal"
	ActivityTypeContract  ActivityType = "contract"
	ActivityTypeFollowUp  ActivityType = "follow-up"
	ActivityTypePricing   ActivityType = "pricing"
	ActivityTypeObjection ActivityType = "objection"
)

// Activity represents a timeline entry on a lead
type Activity struct {
	ID          uuid.UUID    `gorm:"type:uuid;primary_key"`
	LeadID      uuid.UUID    `gorm:"type:uuid;not null;index;column:lead_id"`
	Type        ActivityType `gorm:"type:varchar(50);not null"`
	Description string       `gorm:"type:varchar(1000);not null"`
	Timestamp   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// BeforeCreate assigns a UUID primary key and timestamp if unset
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}
