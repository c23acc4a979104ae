// internal/repository/postgres/booking_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrayfi-service/internal/domain/booking"
	xerrors "hrayfi-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `
	id, client_id, artisan_id, service_type, description, address,
	urgency, scheduled_date, status, created_at, updated_at
`

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var b booking.Booking
	err := row.Scan(
		&b.ID, &b.ClientID, &b.ArtisanID, &b.ServiceType, &b.Description, &b.Address,
		&b.Urgency, &b.ScheduledDate, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return &b, nil
}

// Create inserts a booking in pending status.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	b.ID = ulid.Make().String()
	b.Status = booking.StatusPending

	query := `
		INSERT INTO bookings (
			id, client_id, artisan_id, service_type, description, address,
			urgency, scheduled_date, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		b.ID, b.ClientID, b.ArtisanID, b.ServiceType, b.Description, b.Address,
		b.Urgency, b.ScheduledDate, b.Status,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// FindByID retrieves a booking by id.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*booking.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRow(ctx, query, id))
}

// ListForUser lists bookings where the user is client or artisan, newest first.
func (r *BookingRepository) ListForUser(ctx context.Context, userID string, filters booking.ListFilters) ([]*booking.Booking, error) {
	where := []string{"(client_id = $1 OR artisan_id = $1)"}
	args := []interface{}{userID}
	pos := 2

	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", pos))
		args = append(args, filters.Status)
		pos++
	}

	limit := filters.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE %s
		ORDER BY created_at DESC
		OFFSET $%d LIMIT $%d
	`, bookingColumns, strings.Join(where, " AND "), pos, pos+1)
	args = append(args, filters.Skip, limit)

	return r.queryBookings(ctx, query, args...)
}

// ListAll lists every booking, newest first. Admin only.
func (r *BookingRepository) ListAll(ctx context.Context, filters booking.ListFilters) ([]*booking.Booking, error) {
	where := "TRUE"
	args := []interface{}{}
	pos := 1

	if filters.Status != "" {
		where = fmt.Sprintf("status = $%d", pos)
		args = append(args, filters.Status)
		pos++
	}

	limit := filters.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bookings
		WHERE %s
		ORDER BY created_at DESC
		OFFSET $%d LIMIT $%d
	`, bookingColumns, where, pos, pos+1)
	args = append(args, filters.Skip, limit)

	return r.queryBookings(ctx, query, args...)
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update applies the given column values to the booking row. The service
// layer decides which fields each role may touch.
func (r *BookingRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	pos := 1
	for column, value := range fields {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, pos))
		args = append(args, value)
		pos++
	}

	query := fmt.Sprintf("UPDATE bookings SET %s WHERE id = $%d", strings.Join(sets, ", "), pos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// Delete removes a booking permanently.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// StatsForUser counts the user's bookings grouped by status.
func (r *BookingRepository) StatsForUser(ctx context.Context, userID string) (*booking.Stats, error) {
	query := `
		SELECT status, COUNT(*)
		FROM bookings
		WHERE client_id = $1 OR artisan_id = $1
		GROUP BY status
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking stats: %w", err)
	}
	defer rows.Close()

	var stats booking.Stats
	for rows.Next() {
		var status booking.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan booking stats: %w", err)
		}
		stats.Total += count
		switch status {
		case booking.StatusPending:
			stats.Pending = count
		case booking.StatusConfirmed:
			stats.Confirmed = count
		case booking.StatusInProgress:
			stats.InProgress = count
		case booking.StatusCompleted:
			stats.Completed = count
		case booking.StatusCancelled:
			stats.Cancelled = count
		}
	}
	return &stats, rows.Err()
}
