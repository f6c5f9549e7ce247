package task

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kavin1122/task-management/internal/apperr"
	"github.com/kavin1122/task-management/internal/model"
)

type fakeTaskStore struct {
	nextID int64
	tasks  map[int64]*model.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{nextID: 1, tasks: map[int64]*model.Task{}}
}

func (s *fakeTaskStore) Insert(_ context.Context, t *model.Task) (int64, error) {
	t.ID = s.nextID
	s.nextID++
	cp := *t
	s.tasks[t.ID] = &cp
	return t.ID, nil
}

func (s *fakeTaskStore) FindByID(_ context.Context, id int64) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task not found")
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTaskStore) List(_ context.Context) ([]model.Task, error) {
	out := []model.Task{}
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (s *fakeTaskStore) ListByProject(_ context.Context, projectID int64) ([]model.Task, error) {
	out := []model.Task{}
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) Update(_ context.Context, t *model.Task) error {
	if _, ok := s.tasks[t.ID]; !ok {
		return apperr.NotFound("task not found")
	}
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *fakeTaskStore) UpdateStatus(_ context.Context, id int64, status string) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task not found")
	}
	t.Status = status
	cp := *t
	return &cp, nil
}

func (s *fakeTaskStore) Delete(_ context.Context, id int64) (int64, error) {
	t, ok := s.tasks[id]
	if !ok {
		return 0, apperr.NotFound("task not found")
	}
	delete(s.tasks, id)
	return t.ProjectID, nil
}

type fakeProjectFinder struct {
	existing map[int64]bool
}

func (f *fakeProjectFinder) FindByID(_ context.Context, id int64) (*model.Project, error) {
	if !f.existing[id] {
		return nil, apperr.NotFound("project not found")
	}
	return &model.Project{ID: id}, nil
}

type fakeCache struct {
	entries     map[int64][]model.Task
	invalidated []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[int64][]model.Task{}}
}

func (c *fakeCache) GetProjectTasks(_ context.Context, projectID int64) ([]model.Task, error) {
	return c.entries[projectID], nil
}

func (c *fakeCache) SetProjectTasks(_ context.Context, projectID int64, tasks []model.Task) error {
	c.entries[projectID] = tasks
	return nil
}

func (c *fakeCache) InvalidateProject(_ context.Context, projectID int64) error {
	delete(c.entries, projectID)
	c.invalidated = append(c.invalidated, projectID)
	return nil
}

type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Publish(routingKey string, _ any) error {
	p.events = append(p.events, routingKey)
	return nil
}

const projectID = int64(10)

func newTestService() (*Service, *fakeTaskStore, *fakeCache, *fakePublisher) {
	store := newFakeTaskStore()
	cache := newFakeCache()
	pub := &fakePublisher{}
	finder := &fakeProjectFinder{existing: map[int64]bool{projectID: true}}
	svc := NewService(store, finder, cache, pub, zap.NewNop())
	return svc, store, cache, pub
}

func TestCreate_Defaults(t *testing.T) {
	svc, _, _, pub := newTestService()

	created, err := svc.Create(context.Background(), CreateInput{Title: "Ship it", ProjectID: projectID})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != model.StatusTodo {
		t.Fatalf("status = %q, want %q", created.Status, model.StatusTodo)
	}
	if created.Priority != model.PriorityMedium {
		t.Fatalf("priority = %q, want %q", created.Priority, model.PriorityMedium)
	}
	if len(pub.events) != 1 || pub.events[0] != "task.created" {
		t.Fatalf("events = %v, want [task.created]", pub.events)
	}
}

func TestCreate_RequiredFields(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{ProjectID: projectID}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("missing title: expected validation error, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Title: "x"}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("missing project: expected validation error, got %v", err)
	}
}

func TestCreate_MissingProjectReference(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateInput{Title: "x", ProjectID: 404})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for dead project ref, got %v", err)
	}
}

func TestCreate_InvalidPriority(t *testing.T) {
	svc, _, _, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateInput{Title: "x", ProjectID: projectID, Priority: "urgent"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetStatus_RejectsUnrecognizedValue(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{Title: "x", ProjectID: projectID})

	if _, err := svc.SetStatus(ctx, created.ID, "bogus"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := store.tasks[created.ID].Status; got != model.StatusTodo {
		t.Fatalf("status changed to %q on rejected update", got)
	}
}

func TestSetStatus_CaseSensitiveLiterals(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{Title: "x", ProjectID: projectID})

	for _, bad := range []string{"Todo", "INPROGRESS", "Completed", "in progress"} {
		if _, err := svc.SetStatus(ctx, created.ID, bad); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("SetStatus(%q): expected validation error, got %v", bad, err)
		}
	}
}

func TestSetStatus_NoTransitionOrderEnforcement(t *testing.T) {
	svc, _, _, pub := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{Title: "x", ProjectID: projectID})

	// "completed" straight from "todo" is accepted.
	updated, err := svc.SetStatus(ctx, created.ID, model.StatusCompleted)
	if err != nil {
		t.Fatalf("todo -> completed rejected: %v", err)
	}
	if updated.Status != model.StatusCompleted {
		t.Fatalf("status = %q, want %q", updated.Status, model.StatusCompleted)
	}

	// Moving backwards is accepted too.
	if _, err := svc.SetStatus(ctx, created.ID, model.StatusTodo); err != nil {
		t.Fatalf("completed -> todo rejected: %v", err)
	}

	found := 0
	for _, e := range pub.events {
		if e == "task.status_changed" {
			found++
		}
	}
	if found != 2 {
		t.Fatalf("expected 2 status change events, got %d (%v)", found, pub.events)
	}
}

func TestUpdate_MergeIfPresent(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{Title: "keep me", ProjectID: projectID, Description: "old"})

	empty := ""
	desc := "new"
	if _, err := svc.Update(ctx, created.ID, model.TaskPatch{Title: &empty, Description: &desc}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got := store.tasks[created.ID]
	if got.Title != "keep me" {
		t.Fatalf("empty-string title overwrote stored value: %q", got.Title)
	}
	if got.Description != "new" {
		t.Fatalf("description = %q, want %q", got.Description, "new")
	}
}

func TestUpdate_NilFieldsAreNoOps(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	deadline := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	assignee := int64(5)
	created, _ := svc.Create(ctx, CreateInput{
		Title:      "x",
		ProjectID:  projectID,
		AssignedTo: &assignee,
		Deadline:   &deadline,
	})

	if _, err := svc.Update(ctx, created.ID, model.TaskPatch{}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got := store.tasks[created.ID]
	if got.AssignedTo == nil || *got.AssignedTo != assignee {
		t.Fatalf("assigned_to changed: %v", got.AssignedTo)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Fatalf("deadline changed: %v", got.Deadline)
	}
}

func TestUpdate_InvalidStatusInPatch(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{Title: "x", ProjectID: projectID})

	bad := "archived"
	if _, err := svc.Update(ctx, created.ID, model.TaskPatch{Status: &bad}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListByProject_CacheMissThenHit(t *testing.T) {
	svc, store, cache, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{Title: "x", ProjectID: projectID})

	first, err := svc.ListByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("listed %d tasks, want 1", len(first))
	}
	if _, ok := cache.entries[projectID]; !ok {
		t.Fatalf("miss did not repopulate cache")
	}

	// Remove from the store; a hit must serve the cached copy.
	delete(store.tasks, created.ID)
	second, err := svc.ListByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("cache hit returned %d tasks, want 1", len(second))
	}
}

func TestWrites_InvalidateProjectCache(t *testing.T) {
	svc, _, cache, _ := newTestService()
	ctx := context.Background()

	created, _ := svc.Create(ctx, CreateInput{Title: "x", ProjectID: projectID})
	if _, err := svc.SetStatus(ctx, created.ID, model.StatusInProgress); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// create + status change + delete
	if len(cache.invalidated) != 3 {
		t.Fatalf("expected 3 invalidations, got %d (%v)", len(cache.invalidated), cache.invalidated)
	}
	for _, id := range cache.invalidated {
		if id != projectID {
			t.Fatalf("invalidated unexpected project %d", id)
		}
	}
}

func TestDelete_MissingTask(t *testing.T) {
	svc, _, _, _ := newTestService()
	if err := svc.Delete(context.Background(), 404); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
