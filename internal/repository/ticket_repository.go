package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crp-service/internal/domain"
)

// TicketRepository persists ticket snapshots. Threads are stored
// separately by ThreadRepository.
type TicketRepository interface {
	Upsert(ctx context.Context, ticket *domain.Ticket) error
	ListAll(ctx context.Context) ([]*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Upsert(ctx context.Context, ticket *domain.Ticket) error {
	var classification []byte
	if ticket.Classification != nil {
		data, err := json.Marshal(ticket.Classification)
		if err != nil {
			return fmt.Errorf("marshal classification: %w", err)
		}
		classification = data
	}
	const query = `
        INSERT INTO tickets (id, sequence, subject, description, urgency, affected_system, classification, status, assigned_lead_id, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        ON CONFLICT (id) DO UPDATE SET
            classification=EXCLUDED.classification, status=EXCLUDED.status,
            assigned_lead_id=EXCLUDED.assigned_lead_id, updated_at=EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Sequence,
		ticket.Subject,
		ticket.Description,
		ticket.Urgency,
		ticket.AffectedSystem,
		classification,
		ticket.Status,
		ticket.AssignedLeadID,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	return err
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]*domain.Ticket, error) {
	const query = `
        SELECT id, sequence, subject, description, urgency, affected_system, classification, status, assigned_lead_id, created_at, updated_at
        FROM tickets ORDER BY sequence`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		var classification []byte
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Sequence,
			&ticket.Subject,
			&ticket.Description,
			&ticket.Urgency,
			&ticket.AffectedSystem,
			&classification,
			&ticket.Status,
			&ticket.AssignedLeadID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(classification) > 0 {
			ticket.Classification = &domain.Classification{}
			if err := json.Unmarshal(classification, ticket.Classification); err != nil {
				return nil, fmt.Errorf("unmarshal classification for %s: %w", ticket.ID, err)
			}
		}
		out = append(out, &ticket)
	}
	return out, rows.Err()
}
