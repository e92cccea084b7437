package repository

import (
	"context"
	"time"

	"dayflow-api/core/database"
	"dayflow-api/core/logger"
	"dayflow-api/modules/schedule/entity"
)

// ScheduleStore is the local schedule/task store the reconciler and context
// assembler read from. Implementations must scope every query to the user.
type ScheduleStore interface {
	ListScheduleItems(ctx context.Context, userID string, timeMin, timeMax time.Time) ([]entity.ScheduleItem, error)
	CreateScheduleItem(ctx context.Context, item *entity.ScheduleItem) error
	DeleteScheduleItem(ctx context.Context, userID, itemID string) error
	ListPendingTasks(ctx context.Context, userID string) ([]entity.Task, error)
}

type scheduleRepository struct {
	db database.IDatabase
}

func NewScheduleRepository(db database.IDatabase) ScheduleStore {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) ListScheduleItems(ctx context.Context, userID string, timeMin, timeMax time.Time) ([]entity.ScheduleItem, error) {
	var items []entity.ScheduleItem
	query := `
		SELECT id, user_id, title, description, location, start_time, end_time, remote_mirror, created_at, updated_at
		FROM schedule_items
		WHERE user_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC
	`
	err := r.db.SelectContext(ctx, &items, query, userID, timeMin, timeMax)
	if err != nil {
		logger.Error("ScheduleRepository:ListScheduleItems:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return items, nil
}

func (r *scheduleRepository) CreateScheduleItem(ctx context.Context, item *entity.ScheduleItem) error {
	query := `
		INSERT INTO schedule_items (id, user_id, title, description, location, start_time, end_time, remote_mirror, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	err := r.db.ExecContext(ctx, query,
		item.ID, item.UserID, item.Title, item.Description, item.Location,
		item.StartTime, item.EndTime, item.RemoteMirror)
	if err != nil {
		logger.Error("ScheduleRepository:CreateScheduleItem:Error", "error", err, "user_id", item.UserID)
		return err
	}
	return nil
}

func (r *scheduleRepository) DeleteScheduleItem(ctx context.Context, userID, itemID string) error {
	query := `DELETE FROM schedule_items WHERE user_id = $1 AND id = $2`
	err := r.db.ExecContext(ctx, query, userID, itemID)
	if err != nil {
		logger.Error("ScheduleRepository:DeleteScheduleItem:Error", "error", err, "user_id", userID)
		return err
	}
	return nil
}

func (r *scheduleRepository) ListPendingTasks(ctx context.Context, userID string) ([]entity.Task, error) {
	var tasks []entity.Task
	query := `
		SELECT id, user_id, title, estimate_minutes, category, completed, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND completed = FALSE
		ORDER BY created_at ASC
	`
	err := r.db.SelectContext(ctx, &tasks, query, userID)
	if err != nil {
		logger.Error("ScheduleRepository:ListPendingTasks:Error", "error", err, "user_id", userID)
		return nil, err
	}
	return tasks, nil
}
