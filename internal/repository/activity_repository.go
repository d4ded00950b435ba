package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/domain"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByLead returns a lead's activities newest first
func (r *ActivityRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Activity, error) {
	var activities []domain.Activity
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("timestamp DESC").
		Find(&activities).Error
	return activities, err
}
