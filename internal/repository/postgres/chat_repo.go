// internal/repository/postgres/chat_repo.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hrayfi-service/internal/domain/chat"
	xerrors "hrayfi-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type ChatRepository struct {
	db *pgxpool.Pool
}

func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

const messageColumns = `
	id, booking_id, sender_id, sender_type, receiver_id, content,
	message_type, is_read, created_at, read_at
`

func scanMessage(row pgx.Row) (*chat.Message, error) {
	var m chat.Message
	err := row.Scan(
		&m.ID, &m.BookingID, &m.SenderID, &m.SenderType, &m.ReceiverID, &m.Content,
		&m.MessageType, &m.IsRead, &m.CreatedAt, &m.ReadAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	return &m, nil
}

// Create persists a message after re-checking that sender and receiver are
// the two participants of the booking. The store, not the caller, stamps
// id, created_at and the unread state.
func (r *ChatRepository) Create(ctx context.Context, nm *chat.NewMessage) (*chat.Message, error) {
	var clientID, artisanID string
	err := r.db.QueryRow(ctx,
		`SELECT client_id, artisan_id FROM bookings WHERE id = $1`, nm.BookingID,
	).Scan(&clientID, &artisanID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	validPair := (nm.SenderID == clientID && nm.ReceiverID == artisanID) ||
		(nm.SenderID == artisanID && nm.ReceiverID == clientID)
	if !validPair {
		return nil, xerrors.ErrForbidden
	}

	m := &chat.Message{
		ID:          ulid.Make().String(),
		BookingID:   nm.BookingID,
		SenderID:    nm.SenderID,
		SenderType:  nm.SenderType,
		ReceiverID:  nm.ReceiverID,
		Content:     nm.Content,
		MessageType: nm.MessageType,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
	}
	if m.MessageType == "" {
		m.MessageType = chat.MessageText
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO chat_messages (id, booking_id, sender_id, sender_type, receiver_id,
		                           content, message_type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, m.ID, m.BookingID, m.SenderID, m.SenderType, m.ReceiverID,
		m.Content, m.MessageType, m.IsRead, m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return m, nil
}

// ListByBooking returns the booking's messages oldest first.
func (r *ChatRepository) ListByBooking(ctx context.Context, bookingID string, skip, limit int) ([]*chat.Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `
		SELECT ` + messageColumns + `
		FROM chat_messages
		WHERE booking_id = $1
		ORDER BY created_at ASC
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, bookingID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	out := []*chat.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkRead marks every message addressed to readerID in the booking as
// read and returns how many changed. Already-read messages keep their
// original read_at.
func (r *ChatRepository) MarkRead(ctx context.Context, bookingID, readerID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE chat_messages
		SET is_read = TRUE, read_at = NOW()
		WHERE booking_id = $1 AND receiver_id = $2 AND is_read = FALSE
	`, bookingID, readerID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UnreadCount counts unread messages addressed to userID in one booking.
func (r *ChatRepository) UnreadCount(ctx context.Context, bookingID, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM chat_messages
		WHERE booking_id = $1 AND receiver_id = $2 AND is_read = FALSE
	`, bookingID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// ConversationRow is the raw join result before the sentinel is applied.
type ConversationRow struct {
	BookingID string
	Other     chat.OtherUser
	Content   sql.NullString
	CreatedAt sql.NullTime
	IsRead    sql.NullBool
	SenderID  sql.NullString
	Unread    int64
}

// Conversations lists one entry per booking the user participates in, with
// the counterpart's profile, the latest message (if any) and the unread
// count, most recent activity first.
func (r *ChatRepository) Conversations(ctx context.Context, userID string) ([]ConversationRow, error) {
	query := `
		SELECT b.id,
		       u.id, u.first_name, u.last_name, u.profile_picture, u.user_type,
		       lm.content, lm.created_at, lm.is_read, lm.sender_id,
		       COALESCE(un.cnt, 0)
		FROM bookings b
		JOIN users u
		  ON u.id = CASE WHEN b.client_id = $1 THEN b.artisan_id ELSE b.client_id END
		LEFT JOIN LATERAL (
			SELECT content, created_at, is_read, sender_id
			FROM chat_messages
			WHERE booking_id = b.id
			ORDER BY created_at DESC
			LIMIT 1
		) lm ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS cnt
			FROM chat_messages
			WHERE booking_id = b.id AND receiver_id = $1 AND is_read = FALSE
		) un ON TRUE
		WHERE b.client_id = $1 OR b.artisan_id = $1
		ORDER BY COALESCE(lm.created_at, b.created_at) DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var out []ConversationRow
	for rows.Next() {
		var row ConversationRow
		var picture sql.NullString
		if err := rows.Scan(
			&row.BookingID,
			&row.Other.ID, &row.Other.FirstName, &row.Other.LastName, &picture, &row.Other.UserType,
			&row.Content, &row.CreatedAt, &row.IsRead, &row.SenderID,
			&row.Unread,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if picture.Valid {
			row.Other.ProfilePicture = &picture.String
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Stats aggregates the user's messaging activity.
func (r *ChatRepository) Stats(ctx context.Context, userID string) (*chat.Stats, error) {
	var stats chat.Stats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE sender_id = $1 OR receiver_id = $1),
		       COUNT(*) FILTER (WHERE receiver_id = $1 AND is_read = FALSE),
		       COUNT(DISTINCT booking_id) FILTER (WHERE sender_id = $1 OR receiver_id = $1)
		FROM chat_messages
	`, userID).Scan(&stats.TotalMessages, &stats.UnreadMessages, &stats.ActiveConversations)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat stats: %w", err)
	}
	return &stats, nil
}
