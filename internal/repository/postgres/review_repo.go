// internal/repository/postgres/review_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrayfi-service/internal/domain/review"
	xerrors "hrayfi-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type ReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `
	id, booking_id, client_id, artisan_id, rating, comment, created_at, updated_at
`

func scanReview(row pgx.Row) (*review.Review, error) {
	var rv review.Review
	err := row.Scan(
		&rv.ID, &rv.BookingID, &rv.ClientID, &rv.ArtisanID,
		&rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan review: %w", err)
	}
	return &rv, nil
}

// Create inserts a review and refreshes the artisan's aggregate rating in
// the same transaction. One review per booking, enforced by a unique index
// on booking_id.
func (r *ReviewRepository) Create(ctx context.Context, rv *review.Review) error {
	rv.ID = ulid.Make().String()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO reviews (id, booking_id, client_id, artisan_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		rv.ID, rv.BookingID, rv.ClientID, rv.ArtisanID, rv.Rating, rv.Comment,
	).Scan(&rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return xerrors.ErrConflict
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if err := refreshArtisanRating(ctx, tx, rv.ArtisanID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update changes the rating and/or comment, then refreshes the aggregate.
func (r *ReviewRepository) Update(ctx context.Context, rv *review.Review) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE reviews SET rating = $1, comment = $2, updated_at = NOW() WHERE id = $3`,
		rv.Rating, rv.Comment, rv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	if err := refreshArtisanRating(ctx, tx, rv.ArtisanID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes a review and refreshes the aggregate.
func (r *ReviewRepository) Delete(ctx context.Context, id, artisanID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	if err := refreshArtisanRating(ctx, tx, artisanID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// refreshArtisanRating recomputes the artisan's average rating (one decimal)
// and review count from the reviews table.
func refreshArtisanRating(ctx context.Context, tx pgx.Tx, artisanID string) error {
	_, err := tx.Exec(ctx, `
		UPDATE users u
		SET average_rating = agg.avg_rating,
		    review_count   = agg.review_count,
		    updated_at     = NOW()
		FROM (
			SELECT ROUND(AVG(rating)::numeric, 1) AS avg_rating,
			       COUNT(*)                       AS review_count
			FROM reviews
			WHERE artisan_id = $1
		) agg
		WHERE u.id = $1
	`, artisanID)
	if err != nil {
		return fmt.Errorf("failed to refresh artisan rating: %w", err)
	}
	return nil
}

// FindByID retrieves a review by id.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*review.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(r.db.QueryRow(ctx, query, id))
}

// FindByBooking retrieves the review left for a booking, if any.
func (r *ReviewRepository) FindByBooking(ctx context.Context, bookingID string) (*review.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = $1`
	return scanReview(r.db.QueryRow(ctx, query, bookingID))
}

// ListByArtisan lists an artisan's reviews, newest first.
func (r *ReviewRepository) ListByArtisan(ctx context.Context, artisanID string, skip, limit int) ([]*review.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE artisan_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, artisanID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var out []*review.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ListByClient lists the reviews a client has written, newest first.
func (r *ReviewRepository) ListByClient(ctx context.Context, clientID string, skip, limit int) ([]*review.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE client_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, clientID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var out []*review.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// RatingStats returns the artisan's aggregate rating and the per-star
// distribution.
func (r *ReviewRepository) RatingStats(ctx context.Context, artisanID string) (*review.RatingStats, error) {
	stats := &review.RatingStats{
		ArtisanID:          artisanID,
		RatingDistribution: map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}

	rows, err := r.db.Query(ctx,
		`SELECT rating, COUNT(*) FROM reviews WHERE artisan_id = $1 GROUP BY rating`,
		artisanID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating stats: %w", err)
	}
	defer rows.Close()

	var sum, count int64
	for rows.Next() {
		var rating int
		var n int64
		if err := rows.Scan(&rating, &n); err != nil {
			return nil, fmt.Errorf("failed to scan rating stats: %w", err)
		}
		stats.RatingDistribution[rating] = n
		sum += int64(rating) * n
		count += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.ReviewCount = count
	if count > 0 {
		// Same one-decimal rounding as the stored aggregate.
		stats.AverageRating = float64(int64(float64(sum)/float64(count)*10+0.5)) / 10
	}
	return stats, nil
}
