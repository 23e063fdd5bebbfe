package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learnhub/api/internal/model"
)

func (s *Store) CreateTicket(ctx context.Context, ticket model.Ticket) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tickets (id, subject, message, status, creator_id, creator_name, creator_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, ticket.ID, ticket.Subject, ticket.Message, ticket.Status, ticket.CreatorID, ticket.CreatorName, ticket.CreatorRole, ticket.CreatedAt, ticket.UpdatedAt)
	return err
}

func (s *Store) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	return s.queryTickets(ctx, `
		SELECT id, subject, message, status, creator_id, creator_name, creator_role, created_at, updated_at
		FROM tickets
		ORDER BY created_at DESC
	`)
}

func (s *Store) ListTicketsByCreator(ctx context.Context, creatorID string) ([]model.Ticket, error) {
	return s.queryTickets(ctx, `
		SELECT id, subject, message, status, creator_id, creator_name, creator_role, created_at, updated_at
		FROM tickets
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`, creatorID)
}

func (s *Store) queryTickets(ctx context.Context, query string, args ...any) ([]model.Ticket, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var ticket model.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Subject,
			&ticket.Message,
			&ticket.Status,
			&ticket.CreatorID,
			&ticket.CreatorName,
			&ticket.CreatorRole,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

type TicketUpdate struct {
	Subject *string
	Message *string
	Status  *model.TicketStatus
}

// UpdateTicket applies the update to the ticket matched by id, scoped to
// creatorID unless creatorID is empty (admin access). A miss — nonexistent
// id or a ticket owned by someone else — is pgx.ErrNoRows either way, so the
// caller cannot tell the two apart.
func (s *Store) UpdateTicket(ctx context.Context, ticketID, creatorID string, update TicketUpdate) (model.Ticket, error) {
	sets := []string{}
	args := []any{}
	arg := 1

	if update.Subject != nil {
		sets = append(sets, fmt.Sprintf("subject = $%d", arg))
		args = append(args, *update.Subject)
		arg++
	}
	if update.Message != nil {
		sets = append(sets, fmt.Sprintf("message = $%d", arg))
		args = append(args, *update.Message)
		arg++
	}
	if update.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", arg))
		args = append(args, *update.Status)
		arg++
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", arg))
	args = append(args, time.Now().UTC())
	arg++

	query := fmt.Sprintf(`
		UPDATE tickets
		SET %s
		WHERE id = $%d
	`, strings.Join(sets, ", "), arg)
	args = append(args, ticketID)
	arg++

	if creatorID != "" {
		query += fmt.Sprintf(" AND creator_id = $%d", arg)
		args = append(args, creatorID)
	}
	query += `
		RETURNING id, subject, message, status, creator_id, creator_name, creator_role, created_at, updated_at
	`

	var ticket model.Ticket
	row := s.pool.QueryRow(ctx, query, args...)
	err := row.Scan(
		&ticket.ID,
		&ticket.Subject,
		&ticket.Message,
		&ticket.Status,
		&ticket.CreatorID,
		&ticket.CreatorName,
		&ticket.CreatorRole,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	return ticket, err
}

// DeleteTicket follows the same scoping rule as UpdateTicket.
func (s *Store) DeleteTicket(ctx context.Context, ticketID, creatorID string) (bool, error) {
	query := `DELETE FROM tickets WHERE id = $1`
	args := []any{ticketID}
	if creatorID != "" {
		query += ` AND creator_id = $2`
		args = append(args, creatorID)
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
