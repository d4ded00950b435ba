package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/domain"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// LeadFilters holds optional filters for listing leads
// A nil pointer means the dimension is unfiltered
type LeadFilters struct {
	Status     *domain.LeadStatus
	Source     *string
	AssignedTo *string
	Search     string
	Archived   bool
}

// preloadAll attaches the nested collections in their presentation order:
// notes oldest first, tasks by due date, activities newest first
func (r *LeadRepository) preloadAll(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("due_date ASC")
		}).
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp DESC")
		})
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.preloadAll(r.db.WithContext(ctx)).First(&lead, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// List returns leads matching the filters with nested collections attached,
// newest leads first
func (r *LeadRepository) List(ctx context.Context, filters *LeadFilters) ([]domain.Lead, error) {
	var leads []domain.Lead

	query := r.db.WithContext(ctx).Model(&domain.Lead{})

	if filters != nil {
		query = query.Where("archived = ?", filters.Archived)

		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.Source != nil {
			query = query.Where("source = ?", *filters.Source)
		}
		if filters.AssignedTo != nil {
			query = query.Where("assigned_to = ?", *filters.AssignedTo)
		}
		if filters.Search != "" {
			// LOWER(...) LIKE instead of ILIKE so the query also runs on sqlite
			pattern := "%" + filters.Search + "%"
			query = query.Where(
				"LOWER(name) LIKE LOWER(?) OR LOWER(company) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)",
				pattern, pattern, pattern,
			)
		}
	} else {
		query = query.Where("archived = ?", false)
	}

	err := r.preloadAll(query).
		Order("created_at DESC").
		Find(&leads).Error

	return leads, err
}

func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

// UpdateFields applies a partial update to a lead
func (r *LeadRepository) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetArchived flips the archived flag and returns the stored value
func (r *LeadRepository) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("id = ?", id).
		Update("archived", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists checks whether a lead row is present
func (r *LeadRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Lead{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
