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

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *model.Project) (int64, error) {
	r.logger.Debug("Inserting project",
		zap.Int64("created_by", p.CreatedBy),
		zap.String("title", p.Title),
	)

	query := `
        INSERT INTO projects (title, description, created_by, members)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		p.Title,
		p.Description,
		p.CreatedBy,
		p.Members,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return 0, err
	}

	r.logger.Info("Project inserted successfully",
		zap.Int64("id", p.ID),
		zap.Int64("created_by", p.CreatedBy),
	)
	return p.ID, nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	query := `
        SELECT id, title, description, created_by, members, created_at
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.CreatedBy, &p.Members, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("project not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	query := `
        SELECT id, title, description, created_by, members, created_at
        FROM projects
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedBy, &p.Members, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) Update(ctx context.Context, p *model.Project) error {
	query := `
        UPDATE projects
        SET title = $2, description = $3, members = $4
        WHERE id = $1
    `
	result, err := r.db.Exec(ctx, query, p.ID, p.Title, p.Description, p.Members)
	if err != nil {
		r.logger.Error("Failed to update project", zap.Error(err), zap.Int64("id", p.ID))
		return err
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("project not found")
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Error(err), zap.Int64("id", id))
		return err
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("project not found")
	}
	r.logger.Info("Project deleted", zap.Int64("id", id))
	return nil
}

// AppendMember adds memberID to the project's member set in a single
// conditional update, so concurrent calls cannot insert a duplicate.
// Returns the updated project, apperr.Conflict if the member is already
// present, or apperr.NotFound if the project does not exist.
func (r *ProjectRepository) AppendMember(ctx context.Context, projectID, memberID int64) (*model.Project, error) {
	query := `
        UPDATE projects
        SET members = array_append(members, $2)
        WHERE id = $1 AND NOT ($2 = ANY (members))
        RETURNING id, title, description, created_by, members, created_at
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, projectID, memberID).Scan(
		&p.ID, &p.Title, &p.Description, &p.CreatedBy, &p.Members, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// No row updated: either the project is missing or the member
		// is already in the set.
		if _, ferr := r.FindByID(ctx, projectID); ferr != nil {
			return nil, ferr
		}
		return nil, apperr.Conflict("member already in project")
	}
	if err != nil {
		r.logger.Error("Failed to append member",
			zap.Error(err),
			zap.Int64("project_id", projectID),
			zap.Int64("member_id", memberID),
		)
		return nil, err
	}

	r.logger.Info("Member appended to project",
		zap.Int64("project_id", projectID),
		zap.Int64("member_id", memberID),
	)
	return &p, nil
}
