package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kavin1122/task-management/internal/apperr"
	"github.com/kavin1122/task-management/internal/model"
	"github.com/kavin1122/task-management/internal/mq"
)

// Store is the slice of the storage layer the task service needs.
type Store interface {
	Insert(ctx context.Context, t *model.Task) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	UpdateStatus(ctx context.Context, id int64, status string) (*model.Task, error)
	Delete(ctx context.Context, id int64) (projectID int64, err error)
}

// ProjectFinder resolves the project reference at task creation time.
type ProjectFinder interface {
	FindByID(ctx context.Context, id int64) (*model.Project, error)
}

// Cache holds per-project task listings; writes invalidate.
type Cache interface {
	GetProjectTasks(ctx context.Context, projectID int64) ([]model.Task, error)
	SetProjectTasks(ctx context.Context, projectID int64, tasks []model.Task) error
	InvalidateProject(ctx context.Context, projectID int64) error
}

type Publisher interface {
	Publish(routingKey string, payload any) error
}

type Service struct {
	store     Store
	projects  ProjectFinder
	cache     Cache
	publisher Publisher
	logger    *zap.Logger
}

func NewService(store Store, projects ProjectFinder, cache Cache, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		projects:  projects,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateInput carries the caller-supplied fields for a new task. Status
// always starts at "todo"; priority defaults to "medium".
type CreateInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   int64      `json:"project_id"`
	AssignedTo  *int64     `json:"assigned_to"`
	Priority    string     `json:"priority"`
	Deadline    *time.Time `json:"deadline"`
}

// Create validates the project reference and stores the task. The
// reference is checked at creation time only, never on later updates.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Task, error) {
	if in.Title == "" || in.ProjectID == 0 {
		return nil, apperr.Validation("title and project_id are required")
	}

	if _, err := s.projects.FindByID(ctx, in.ProjectID); err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, apperr.Validation("invalid priority")
	}

	t := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		AssignedTo:  in.AssignedTo,
		Status:      model.StatusTodo,
		Priority:    priority,
		Deadline:    in.Deadline,
	}
	if _, err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, t.ProjectID)
	s.publish(mq.RoutingTaskCreated, mq.TaskCreatedPayload{
		TaskID:    t.ID,
		ProjectID: t.ProjectID,
		Title:     t.Title,
		Priority:  t.Priority,
	})

	return t, nil
}

func (s *Service) Get(ctx context.Context, taskID int64) (*model.Task, error) {
	return s.store.FindByID(ctx, taskID)
}

func (s *Service) List(ctx context.Context) ([]model.Task, error) {
	return s.store.List(ctx)
}

// ListByProject serves from the cache when it can; a miss falls through
// to the store and repopulates.
func (s *Service) ListByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	if s.cache != nil {
		cached, err := s.cache.GetProjectTasks(ctx, projectID)
		if err != nil {
			s.logger.Warn("Task cache read failed", zap.Error(err), zap.Int64("project_id", projectID))
		} else if cached != nil {
			return cached, nil
		}
	}

	tasks, err := s.store.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProjectTasks(ctx, projectID, tasks); err != nil {
			s.logger.Warn("Task cache write failed", zap.Error(err), zap.Int64("project_id", projectID))
		}
	}
	return tasks, nil
}

// Update applies a merge-if-present patch: nil and empty-string fields
// are no-ops, so this path cannot clear a stored value. Any
// authenticated identity may update any task.
func (s *Service) Update(ctx context.Context, taskID int64, patch model.TaskPatch) (*model.Task, error) {
	t, err := s.store.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil && *patch.Title != "" {
		t.Title = *patch.Title
	}
	if patch.Description != nil && *patch.Description != "" {
		t.Description = *patch.Description
	}
	if patch.AssignedTo != nil {
		t.AssignedTo = patch.AssignedTo
	}
	if patch.Status != nil && *patch.Status != "" {
		if !model.ValidStatus(*patch.Status) {
			return nil, apperr.Validation("invalid status")
		}
		t.Status = *patch.Status
	}
	if patch.Priority != nil && *patch.Priority != "" {
		if !model.ValidPriority(*patch.Priority) {
			return nil, apperr.Validation("invalid priority")
		}
		t.Priority = *patch.Priority
	}
	if patch.Deadline != nil {
		t.Deadline = patch.Deadline
	}

	if err := s.store.Update(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, t.ProjectID)
	return t, nil
}

// SetStatus accepts any recognized status value regardless of the
// task's current state; only unrecognized values are rejected.
func (s *Service) SetStatus(ctx context.Context, taskID int64, status string) (*model.Task, error) {
	if !model.ValidStatus(status) {
		return nil, apperr.Validation("invalid status")
	}

	t, err := s.store.UpdateStatus(ctx, taskID, status)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, t.ProjectID)
	s.publish(mq.RoutingTaskStatusChanged, mq.TaskStatusChangedPayload{
		TaskID:    t.ID,
		ProjectID: t.ProjectID,
		Status:    t.Status,
	})

	return t, nil
}

// Delete removes the task. No ownership check, matching the permissive
// task rules.
func (s *Service) Delete(ctx context.Context, taskID int64) error {
	projectID, err := s.store.Delete(ctx, taskID)
	if err != nil {
		return err
	}
	s.invalidate(ctx, projectID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, projectID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProject(ctx, projectID); err != nil {
		s.logger.Warn("Task cache invalidation failed",
			zap.Error(err),
			zap.Int64("project_id", projectID),
		)
	}
}

func (s *Service) publish(routingKey string, payload any) {
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("routing_key", routingKey),
		)
	}
}
