package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crp-service/internal/domain"
)

// ThreadRepository persists issue-thread snapshots.
type ThreadRepository interface {
	Upsert(ctx context.Context, thread *domain.IssueThread) error
	ListAll(ctx context.Context) ([]*domain.IssueThread, error)
}

type threadRepository struct {
	pool *pgxpool.Pool
}

// NewThreadRepository instantiates the repository.
func NewThreadRepository(pool *pgxpool.Pool) ThreadRepository {
	return &threadRepository{pool: pool}
}

func (r *threadRepository) Upsert(ctx context.Context, thread *domain.IssueThread) error {
	const query = `
        INSERT INTO threads (id, ticket_id, title, description, required_skills, priority, assigned_engineer_id, status, solution, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        ON CONFLICT (id) DO UPDATE SET
            assigned_engineer_id=EXCLUDED.assigned_engineer_id, status=EXCLUDED.status,
            solution=EXCLUDED.solution, updated_at=EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		thread.ID,
		thread.ParentTicketID,
		thread.Title,
		thread.Description,
		skillsToStrings(thread.RequiredSkills),
		thread.Priority,
		thread.AssignedEngineerID,
		thread.Status,
		thread.Solution,
		thread.CreatedAt,
		thread.UpdatedAt,
	)
	return err
}

func (r *threadRepository) ListAll(ctx context.Context) ([]*domain.IssueThread, error) {
	const query = `
        SELECT id, ticket_id, title, description, required_skills, priority, assigned_engineer_id, status, solution, created_at, updated_at
        FROM threads ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.IssueThread
	for rows.Next() {
		var thread domain.IssueThread
		var skills []string
		if err := rows.Scan(
			&thread.ID,
			&thread.ParentTicketID,
			&thread.Title,
			&thread.Description,
			&skills,
			&thread.Priority,
			&thread.AssignedEngineerID,
			&thread.Status,
			&thread.Solution,
			&thread.CreatedAt,
			&thread.UpdatedAt,
		); err != nil {
			return nil, err
		}
		thread.RequiredSkills = stringsToSkills(skills)
		out = append(out, &thread)
	}
	return out, rows.Err()
}
