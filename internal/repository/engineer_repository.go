package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crp-service/internal/domain"
)

// EngineerRepository persists roster snapshots.
type EngineerRepository interface {
	Upsert(ctx context.Context, engineer *domain.Engineer) error
	ListAll(ctx context.Context) ([]*domain.Engineer, error)
}

type engineerRepository struct {
	pool *pgxpool.Pool
}

// NewEngineerRepository instantiates the repository.
func NewEngineerRepository(pool *pgxpool.Pool) EngineerRepository {
	return &engineerRepository{pool: pool}
}

func (r *engineerRepository) Upsert(ctx context.Context, engineer *domain.Engineer) error {
	expertise, err := json.Marshal(engineer.Expertise)
	if err != nil {
		return fmt.Errorf("marshal expertise: %w", err)
	}
	const query = `
        INSERT INTO engineers (id, name, department, email, skills, expertise, availability, current_workload, is_lead, forced_offline, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
        ON CONFLICT (id) DO UPDATE SET
            name=EXCLUDED.name, department=EXCLUDED.department, email=EXCLUDED.email,
            skills=EXCLUDED.skills, expertise=EXCLUDED.expertise, availability=EXCLUDED.availability,
            current_workload=EXCLUDED.current_workload, is_lead=EXCLUDED.is_lead,
            forced_offline=EXCLUDED.forced_offline, updated_at=NOW()`
	_, err = r.pool.Exec(ctx, query,
		engineer.ID,
		engineer.Name,
		engineer.Department,
		engineer.Email,
		skillsToStrings(engineer.Skills),
		expertise,
		engineer.Availability,
		engineer.CurrentWorkload,
		engineer.IsLeadEngineer,
		engineer.ForcedOffline,
	)
	return err
}

func (r *engineerRepository) ListAll(ctx context.Context) ([]*domain.Engineer, error) {
	const query = `
        SELECT id, name, department, email, skills, expertise, availability, current_workload, is_lead, forced_offline
        FROM engineers ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Engineer
	for rows.Next() {
		var engineer domain.Engineer
		var skills []string
		var expertise []byte
		if err := rows.Scan(
			&engineer.ID,
			&engineer.Name,
			&engineer.Department,
			&engineer.Email,
			&skills,
			&expertise,
			&engineer.Availability,
			&engineer.CurrentWorkload,
			&engineer.IsLeadEngineer,
			&engineer.ForcedOffline,
		); err != nil {
			return nil, err
		}
		engineer.Skills = stringsToSkills(skills)
		if err := json.Unmarshal(expertise, &engineer.Expertise); err != nil {
			return nil, fmt.Errorf("unmarshal expertise for %s: %w", engineer.ID, err)
		}
		out = append(out, &engineer)
	}
	return out, rows.Err()
}

func skillsToStrings(skills []domain.SkillType) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		out = append(out, string(skill))
	}
	return out
}

func stringsToSkills(values []string) []domain.SkillType {
	out := make([]domain.SkillType, 0, len(values))
	for _, value := range values {
		out = append(out, domain.SkillType(value))
	}
	return out
}
