package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kavin1122/task-management/internal/apperr"
	"github.com/kavin1122/task-management/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) (int64, error) {
	r.logger.Debug("Inserting task",
		zap.Int64("project_id", t.ProjectID),
		zap.String("title", t.Title),
		zap.String("status", t.Status),
	)
	query := `
        INSERT INTO tasks (title, description, project_id, assigned_to, status, priority, deadline)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.ProjectID,
		t.AssignedTo,
		t.Status,
		t.Priority,
		t.Deadline,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.Int64("project_id", t.ProjectID),
		)
		return 0, err
	}
	r.logger.Info("Task inserted successfully",
		zap.Int64("task_id", t.ID),
		zap.Int64("project_id", t.ProjectID),
	)
	return t.ID, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	query := `
        SELECT id, title, description, project_id, assigned_to, status, priority, deadline, created_at
        FROM tasks
        WHERE id = $1
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssignedTo,
		&t.Status, &t.Priority, &t.Deadline, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("task not found")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	query := `
        SELECT id, title, description, project_id, assigned_to, status, priority, deadline, created_at
        FROM tasks
        ORDER BY created_at DESC
    `
	return r.queryTasks(ctx, query)
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	query := `
        SELECT id, title, description, project_id, assigned_to, status, priority, deadline, created_at
        FROM tasks
        WHERE project_id = $1
        ORDER BY created_at DESC
    `
	return r.queryTasks(ctx, query, projectID)
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssignedTo,
			&t.Status, &t.Priority, &t.Deadline, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `
        UPDATE tasks
        SET title = $2, description = $3, assigned_to = $4, status = $5, priority = $6, deadline = $7
        WHERE id = $1
    `
	result, err := r.db.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.AssignedTo, t.Status, t.Priority, t.Deadline,
	)
	if err != nil {
		r.logger.Error("Failed to update task", zap.Error(err), zap.Int64("task_id", t.ID))
		return err
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("task not found")
	}
	return nil
}

// UpdateStatus sets the status in a single update and returns the
// updated task.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status string) (*model.Task, error) {
	query := `
        UPDATE tasks
        SET status = $2
        WHERE id = $1
        RETURNING id, title, description, project_id, assigned_to, status, priority, deadline, created_at
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id, status).Scan(
		&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.AssignedTo,
		&t.Status, &t.Priority, &t.Deadline, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("task not found")
	}
	if err != nil {
		r.logger.Error("Failed to update task status",
			zap.Error(err),
			zap.Int64("task_id", id),
			zap.String("status", status),
		)
		return nil, err
	}
	r.logger.Info("Task status updated",
		zap.Int64("task_id", id),
		zap.String("status", status),
	)
	return &t, nil
}

// Delete removes the task and reports which project it belonged to.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var projectID int64
	err := r.db.QueryRow(ctx, `DELETE FROM tasks WHERE id = $1 RETURNING project_id`, id).
		Scan(&projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.NotFound("task not found")
	}
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Error(err), zap.Int64("task_id", id))
		return 0, err
	}
	r.logger.Info("Task deleted", zap.Int64("task_id", id))
	return projectID, nil
}
