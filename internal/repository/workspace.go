package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/wsschedule/internal/domain"
)

// WorkspaceRepository handles database operations for workspaces.
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository.
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// Create inserts a workspace and fills in its generated ID and created_at.
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	query, args, err := psql.
		Insert("workspaces").
		Columns(
			"name", "owner_name", "autostart_schedule", "ttl_ms",
			"build_status", "build_transition", "build_updated_at", "build_deadline",
		).
		Values(
			workspace.Name, workspace.OwnerName, workspace.AutostartSchedule, workspace.TTLMillis,
			string(workspace.LatestBuild.Status), string(workspace.LatestBuild.Transition),
			workspace.LatestBuild.UpdatedAt, workspace.LatestBuild.Deadline,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for workspace %s: %w", workspace.Name, err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&workspace.ID, &workspace.CreatedAt); err != nil {
		return fmt.Errorf("insert workspace: %w", err)
	}
	return nil
}

// GetByID retrieves a workspace by ID.
func (r *WorkspaceRepository) GetByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	query, args, err := psql.
		Select(workspaceColumns...).
		From("workspaces").
		Where(sq.Eq{"id": workspaceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for workspace %s: %w", workspaceID, err)
	}

	workspace, err := scanWorkspace(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("query workspace: %w", err)
	}
	return workspace, nil
}

// ListRunning retrieves all workspaces whose latest build started them and is
// running, ordered by deadline.
func (r *WorkspaceRepository) ListRunning(ctx context.Context) ([]*domain.Workspace, error) {
	query, args, err := psql.
		Select(workspaceColumns...).
		From("workspaces").
		Where(sq.Eq{
			"build_status":     string(domain.BuildStatusRunning),
			"build_transition": string(domain.BuildTransitionStart),
		}).
		OrderBy("build_deadline NULLS LAST", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListRunning query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query running workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*domain.Workspace
	for rows.Next() {
		workspace, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, workspace)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate running workspaces: %w", err)
	}
	return workspaces, nil
}

// UpdateDeadline sets the latest build's deadline.
func (r *WorkspaceRepository) UpdateDeadline(ctx context.Context, workspaceID string, deadline time.Time) error {
	return r.update(ctx, workspaceID, "build_deadline", deadline)
}

// UpdateAutostart sets or clears (nil) the autostart schedule.
func (r *WorkspaceRepository) UpdateAutostart(ctx context.Context, workspaceID string, autostart *string) error {
	return r.update(ctx, workspaceID, "autostart_schedule", autostart)
}

// UpdateTTL sets or clears (nil) the TTL in milliseconds.
func (r *WorkspaceRepository) UpdateTTL(ctx context.Context, workspaceID string, ttlMillis *int64) error {
	return r.update(ctx, workspaceID, "ttl_ms", ttlMillis)
}

func (r *WorkspaceRepository) update(ctx context.Context, workspaceID, column string, value any) error {
	query, args, err := psql.
		Update("workspaces").
		Set(column, value).
		Where(sq.Eq{"id": workspaceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query for workspace %s column %s: %w", workspaceID, column, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update workspace %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWorkspaceNotFound
	}
	return nil
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var (
		workspace  domain.Workspace
		status     string
		transition string
	)
	err := row.Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.OwnerName,
		&workspace.AutostartSchedule,
		&workspace.TTLMillis,
		&status,
		&transition,
		&workspace.LatestBuild.UpdatedAt,
		&workspace.LatestBuild.Deadline,
		&workspace.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	workspace.LatestBuild.Status = domain.BuildStatus(status)
	workspace.LatestBuild.Transition = domain.BuildTransition(transition)
	return &workspace, nil
}
