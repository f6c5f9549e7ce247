package project

import (
	"context"

	"go.uber.org/zap"

	"github.com/kavin1122/task-management/internal/apperr"
	"github.com/kavin1122/task-management/internal/model"
	"github.com/kavin1122/task-management/internal/mq"
	"github.com/kavin1122/task-management/internal/service/authz"
)

// Store is the slice of the storage layer the project service needs.
// AppendMember must be atomic: add-if-absent in a single conditional
// update.
type Store interface {
	Insert(ctx context.Context, p *model.Project) (int64, error)
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id int64) error
	AppendMember(ctx context.Context, projectID, memberID int64) (*model.Project, error)
}

type Publisher interface {
	Publish(routingKey string, payload any) error
}

type Service struct {
	store     Store
	publisher Publisher
	logger    *zap.Logger
}

func NewService(store Store, publisher Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Create makes the caller the project owner. When no members are given
// the member set defaults to just the creator.
func (s *Service) Create(ctx context.Context, id model.Identity, title, description string, members []int64) (*model.Project, error) {
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	if len(members) == 0 {
		members = []int64{id.UserID}
	} else {
		members = dedupe(members)
	}

	p := &model.Project{
		Title:       title,
		Description: description,
		CreatedBy:   id.UserID,
		Members:     members,
	}
	if _, err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get and List are unrestricted for authenticated identities.
func (s *Service) Get(ctx context.Context, projectID int64) (*model.Project, error) {
	return s.store.FindByID(ctx, projectID)
}

func (s *Service) List(ctx context.Context) ([]model.Project, error) {
	return s.store.List(ctx)
}

// Update applies a merge-if-present patch. Only the owner or an admin
// may update; empty fields in the patch leave stored values unchanged.
func (s *Service) Update(ctx context.Context, id model.Identity, projectID int64, patch model.ProjectPatch) (*model.Project, error) {
	p, err := s.store.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !authz.CanModify(id, p.CreatedBy) {
		return nil, apperr.Forbidden("not authorized to update this project")
	}

	if patch.Title != nil && *patch.Title != "" {
		p.Title = *patch.Title
	}
	if patch.Description != nil && *patch.Description != "" {
		p.Description = *patch.Description
	}
	if patch.Members != nil && len(*patch.Members) > 0 {
		p.Members = dedupe(*patch.Members)
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project. Tasks referencing it are left in place;
// there is no cascade.
func (s *Service) Delete(ctx context.Context, id model.Identity, projectID int64) error {
	p, err := s.store.FindByID(ctx, projectID)
	if err != nil {
		return err
	}

	if !authz.CanModify(id, p.CreatedBy) {
		return apperr.Forbidden("not authorized to delete this project")
	}

	return s.store.Delete(ctx, p.ID)
}

// dedupe keeps the member set duplicate-free when an update replaces
// it wholesale, preserving first-seen order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// AddMember appends a member to the project's set. A repeat add is a
// conflict, not a silent success. The candidate id is not validated
// against the user store.
func (s *Service) AddMember(ctx context.Context, projectID, memberID int64) (*model.Project, error) {
	p, err := s.store.AppendMember(ctx, projectID, memberID)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(mq.RoutingProjectMemberAdded, mq.ProjectMemberAddedPayload{
		ProjectID: projectID,
		MemberID:  memberID,
	}); err != nil {
		s.logger.Warn("Failed to publish member added event",
			zap.Error(err),
			zap.Int64("project_id", projectID),
		)
	}

	return p, nil
}
