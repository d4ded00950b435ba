package jobs

import (
	"context"
	"time"

	"github.com/leadpilot/leads-api/internal/repository"
	"go.uber.org/zap"
)

// TaskSweepJobName is the name of the overdue-task sweep job
const TaskSweepJobName = "overdue_task_sweep"

// TaskSweepJob scans for incomplete tasks past their due date on active
// leads and logs a per-lead summary. It never mutates data; the report
// surfaces in the logs for operators and dashboards.
type TaskSweepJob struct {
	taskRepo *repository.TaskRepository
	logger   *zap.Logger
	timeout  time.Duration
}

// NewTaskSweepJob creates a new overdue-task sweep job.
func NewTaskSweepJob(taskRepo *repository.TaskRepository, logger *zap.Logger, timeout time.Duration) *TaskSweepJob {
	return &TaskSweepJob{
		taskRepo: taskRepo,
		logger:   logger,
		timeout:  timeout,
	}
}

// Run executes the sweep. Called by the scheduler per its cron expression.
func (j *TaskSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	tasks, err := j.taskRepo.ListOverdueOpen(ctx, time.Now().UTC())
	if err != nil {
		j.logger.Error("overdue task sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	perLead := make(map[string]int)
	for _, task := range tasks {
		perLead[task.LeadID.String()]++
	}

	j.logger.Info("overdue task sweep completed",
		zap.Int("overdue_tasks", len(tasks)),
		zap.Int("leads_affected", len(perLead)),
		zap.Duration("duration", time.Since(start)))

	for leadID, count := range perLead {
		j.logger.Warn("lead has overdue tasks",
			zap.String("lead_id", leadID),
			zap.Int("count", count))
	}
}
