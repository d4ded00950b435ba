package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/domain"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByIDForLead returns a task scoped to its parent lead
func (r *TaskRepository) GetByIDForLead(ctx context.Context, leadID, taskID uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).
		First(&task, "id = ? AND lead_id = ?", taskID, leadID).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByLead returns a lead's tasks ordered by due date
func (r *TaskRepository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

// SetCompleted stores the task's completion state
func (r *TaskRepository) SetCompleted(ctx context.Context, taskID uuid.UUID, completed bool) error {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", taskID).
		Update("completed", completed).Error
}

// ListOverdueOpen returns incomplete tasks past their due date across all
// active leads, used by the daily sweep job
func (r *TaskRepository) ListOverdueOpen(ctx context.Context, now time.Time) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Joins("JOIN leads ON leads.id = tasks.lead_id").
		Where("tasks.completed = ? AND tasks.due_date < ? AND leads.archived = ?", false, now, false).
		Order("tasks.due_date ASC").
		Find(&tasks).Error
	return tasks, err
}
