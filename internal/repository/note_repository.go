package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/domain"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// ListByLead returns a lead's notes oldest first
func (r *NoteRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Note, error) {
	var notes []domain.Note
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at ASC").
		Find(&notes).Error
	return notes, err
}
