// internal/repository/postgres/ticket_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrayfi-service/internal/domain/ticket"
	xerrors "hrayfi-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type TicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketColumns = `
	id, ticket_number, user_id, subject, description, category, priority,
	status, admin_notes, responses, created_at, updated_at
`

func scanTicket(row pgx.Row) (*ticket.Ticket, error) {
	var t ticket.Ticket
	var responses []byte
	err := row.Scan(
		&t.ID, &t.TicketNumber, &t.UserID, &t.Subject, &t.Description,
		&t.Category, &t.Priority, &t.Status, &t.AdminNotes, &responses,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ticket: %w", err)
	}
	if len(responses) > 0 {
		if err := json.Unmarshal(responses, &t.Responses); err != nil {
			return nil, fmt.Errorf("failed to decode ticket responses: %w", err)
		}
	}
	if t.Responses == nil {
		t.Responses = []ticket.Response{}
	}
	return &t, nil
}

// Create inserts a ticket with a generated TKT-YYYYMMDD-NNNN number. The
// daily sequence comes from counting today's tickets, so two inserts can
// collide; the unique index on ticket_number makes the loser retry.
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	t.ID = ulid.Make().String()

	for attempt := 0; attempt < 3; attempt++ {
		number, err := r.nextTicketNumber(ctx)
		if err != nil {
			return err
		}

		query := `
			INSERT INTO tickets (id, ticket_number, user_id, subject, description,
			                     category, priority, status, responses)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '[]'::jsonb)
			RETURNING created_at, updated_at
		`
		err = r.db.QueryRow(ctx, query,
			t.ID, number, t.UserID, t.Subject, t.Description,
			t.Category, t.Priority, ticket.StatusOpen,
		).Scan(&t.CreatedAt, &t.UpdatedAt)
		if err == nil {
			t.TicketNumber = number
			t.Status = ticket.StatusOpen
			t.Responses = []ticket.Response{}
			return nil
		}
		if !strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
	}
	return fmt.Errorf("failed to create ticket: %w", xerrors.ErrConflict)
}

func (r *TicketRepository) nextTicketNumber(ctx context.Context) (string, error) {
	today := time.Now().UTC()
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE ticket_number LIKE $1`,
		fmt.Sprintf("TKT-%s-%%", today.Format("20060102")),
	).Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count tickets: %w", err)
	}
	return ticketNumber(today, count+1), nil
}

// ticketNumber formats TKT-YYYYMMDD-NNNN.
func ticketNumber(day time.Time, seq int64) string {
	return fmt.Sprintf("TKT-%s-%04d", day.UTC().Format("20060102"), seq)
}

// FindByID retrieves a ticket by id.
func (r *TicketRepository) FindByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	return scanTicket(r.db.QueryRow(ctx, query, id))
}

// ListForUser lists the user's tickets, newest first.
func (r *TicketRepository) ListForUser(ctx context.Context, userID string, filters ticket.ListFilters) ([]*ticket.Ticket, error) {
	where := []string{"user_id = $1"}
	args := []interface{}{userID}
	return r.listTickets(ctx, where, args, filters)
}

// ListAll lists every ticket, newest first. Admin only.
func (r *TicketRepository) ListAll(ctx context.Context, filters ticket.ListFilters) ([]*ticket.Ticket, error) {
	return r.listTickets(ctx, []string{"TRUE"}, nil, filters)
}

func (r *TicketRepository) listTickets(ctx context.Context, where []string, args []interface{}, filters ticket.ListFilters) ([]*ticket.Ticket, error) {
	pos := len(args) + 1
	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", pos))
		args = append(args, filters.Status)
		pos++
	}
	if filters.Priority != "" {
		where = append(where, fmt.Sprintf("priority = $%d", pos))
		args = append(args, filters.Priority)
		pos++
	}

	limit := filters.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s FROM tickets
		WHERE %s
		ORDER BY created_at DESC
		OFFSET $%d LIMIT $%d
	`, ticketColumns, strings.Join(where, " AND "), pos, pos+1)
	args = append(args, filters.Skip, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var out []*ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of req to the ticket row.
func (r *TicketRepository) Update(ctx context.Context, id string, req *ticket.UpdateTicketRequest) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	pos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, pos))
		args = append(args, value)
		pos++
	}

	if req.Subject != nil {
		add("subject", *req.Subject)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.Priority != nil {
		add("priority", *req.Priority)
	}

	query := fmt.Sprintf("UPDATE tickets SET %s WHERE id = $%d", strings.Join(sets, ", "), pos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateStatus moves a ticket through its lifecycle, optionally recording
// admin notes.
func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status ticket.Status, adminNotes string) error {
	var tag pgconn.CommandTag
	var err error
	if adminNotes != "" {
		tag, err = r.db.Exec(ctx,
			`UPDATE tickets SET status = $1, admin_notes = $2, updated_at = NOW() WHERE id = $3`,
			status, adminNotes, id,
		)
	} else {
		tag, err = r.db.Exec(ctx,
			`UPDATE tickets SET status = $1, updated_at = NOW() WHERE id = $2`,
			status, id,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update ticket status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// AppendResponse appends one thread entry to the ticket's responses array.
func (r *TicketRepository) AppendResponse(ctx context.Context, id string, resp ticket.Response) error {
	entry, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE tickets
		 SET responses = COALESCE(responses, '[]'::jsonb) || $1::jsonb,
		     updated_at = NOW()
		 WHERE id = $2`,
		entry, id,
	)
	if err != nil {
		return fmt.Errorf("failed to append response: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes a ticket. Admin only, enforced at the route.
func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Stats counts tickets grouped by status, across all users.
func (r *TicketRepository) Stats(ctx context.Context) (*ticket.Stats, error) {
	return r.stats(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
}

// StatsForUser counts one user's tickets grouped by status.
func (r *TicketRepository) StatsForUser(ctx context.Context, userID string) (*ticket.Stats, error) {
	return r.stats(ctx, `SELECT status, COUNT(*) FROM tickets WHERE user_id = $1 GROUP BY status`, userID)
}

func (r *TicketRepository) stats(ctx context.Context, query string, args ...interface{}) (*ticket.Stats, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket stats: %w", err)
	}
	defer rows.Close()

	var stats ticket.Stats
	for rows.Next() {
		var status ticket.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan ticket stats: %w", err)
		}
		stats.Total += count
		switch status {
		case ticket.StatusOpen:
			stats.Open = count
		case ticket.StatusInProgress:
			stats.InProgress = count
		case ticket.StatusResolved:
			stats.Resolved = count
		case ticket.StatusClosed:
			stats.Closed = count
		}
	}
	return &stats, rows.Err()
}
