// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hrayfi-service/internal/domain/user"
	xerrors "hrayfi-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	id, email, password_hash, user_type, first_name, last_name, phone,
	language, address, profile_picture,
	company_name, trade, description, years_of_experience,
	certifications, portfolio, identity_documents,
	is_verified, average_rating, review_count,
	is_active, created_at, updated_at
`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var docs []byte
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.UserType, &u.FirstName, &u.LastName, &u.Phone,
		&u.Language, &u.Address, &u.ProfilePicture,
		&u.CompanyName, &u.Trade, &u.Description, &u.YearsOfExperience,
		&u.Certifications, &u.Portfolio, &docs,
		&u.IsVerified, &u.AverageRating, &u.ReviewCount,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &u.IdentityDocuments); err != nil {
			return nil, fmt.Errorf("failed to decode identity documents: %w", err)
		}
	}
	return &u, nil
}

// Create inserts a new user. The caller provides everything except the id
// and timestamps.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	u.ID = ulid.Make().String()

	docs, err := json.Marshal(u.IdentityDocuments)
	if err != nil {
		return fmt.Errorf("failed to encode identity documents: %w", err)
	}

	query := `
		INSERT INTO users (
			id, email, password_hash, user_type, first_name, last_name, phone,
			language, address, profile_picture,
			company_name, trade, description, years_of_experience,
			certifications, portfolio, identity_documents,
			is_verified, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		u.ID, strings.ToLower(u.Email), u.PasswordHash, u.UserType, u.FirstName, u.LastName, u.Phone,
		u.Language, u.Address, u.ProfilePicture,
		u.CompanyName, u.Trade, u.Description, u.YearsOfExperience,
		pq.Array([]string(u.Certifications)), pq.Array([]string(u.Portfolio)), docs,
		u.IsVerified, u.IsActive,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return xerrors.ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByEmail retrieves an active user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// FindByID retrieves a user by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// EmailExists reports whether an account already uses the email.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// Update applies the non-nil fields of req to the user row.
func (r *UserRepository) Update(ctx context.Context, id string, req *user.UpdateUserRequest) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	pos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, pos))
		args = append(args, value)
		pos++
	}

	if req.Email != nil {
		add("email", strings.ToLower(*req.Email))
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Language != nil {
		add("language", *req.Language)
	}
	if req.FirstName != nil {
		add("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		add("last_name", *req.LastName)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.ProfilePicture != nil {
		add("profile_picture", *req.ProfilePicture)
	}
	if req.CompanyName != nil {
		add("company_name", *req.CompanyName)
	}
	if req.Trade != nil {
		add("trade", *req.Trade)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.YearsOfExperience != nil {
		add("years_of_experience", *req.YearsOfExperience)
	}
	if req.Certifications != nil {
		add("certifications", pq.Array(req.Certifications))
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), pos)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return xerrors.ErrConflict
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the password hash for the account with the email.
func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE LOWER(email) = LOWER($2)`,
		passwordHash, email,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// AppendPortfolio adds an uploaded media URL to an artisan's portfolio.
func (r *UserRepository) AppendPortfolio(ctx context.Context, artisanID, url string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET portfolio = array_append(portfolio, $1), updated_at = NOW()
		 WHERE id = $2 AND user_type = 'artisan'`,
		url, artisanID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// SetIdentityDocument records one identity document URL under its document type.
func (r *UserRepository) SetIdentityDocument(ctx context.Context, artisanID, docType, url string) error {
	entry, err := json.Marshal(map[string]string{docType: url})
	if err != nil {
		return fmt.Errorf("failed to encode document entry: %w", err)
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET identity_documents = COALESCE(identity_documents, '{}'::jsonb) || $1::jsonb,
		     updated_at = NOW()
		 WHERE id = $2 AND user_type = 'artisan'`,
		entry, artisanID,
	)
	if err != nil {
		return fmt.Errorf("failed to store identity document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// SetVerified flips an artisan's verification flag.
func (r *UserRepository) SetVerified(ctx context.Context, artisanID string, verified bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_verified = $1, updated_at = NOW()
		 WHERE id = $2 AND user_type = 'artisan'`,
		verified, artisanID,
	)
	if err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ListByType lists accounts of one user type, newest first.
func (r *UserRepository) ListByType(ctx context.Context, userType user.UserType, skip, limit int) ([]*user.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT ` + userColumns + ` FROM users
		WHERE user_type = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`

	rows, err := r.db.Query(ctx, query, userType, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var out []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SetActive flips the account's active flag. Deactivation is the delete
// operation; rows are never removed.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`,
		active, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update account state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// SetPortfolio replaces an artisan's portfolio wholesale. Used for removals,
// where the new list is computed by the caller.
func (r *UserRepository) SetPortfolio(ctx context.Context, artisanID string, portfolio []string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET portfolio = $1, updated_at = NOW()
		 WHERE id = $2 AND user_type = 'artisan'`,
		pq.Array(portfolio), artisanID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// ClearProfilePicture removes the stored profile picture URL.
func (r *UserRepository) ClearProfilePicture(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET profile_picture = NULL, updated_at = NOW() WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to clear profile picture: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// SearchArtisans lists active artisans, optionally filtered by trade and
// address, best rated first.
func (r *UserRepository) SearchArtisans(ctx context.Context, filters user.SearchArtisansFilters) ([]*user.User, error) {
	where := []string{"user_type = 'artisan'", "is_active = TRUE"}
	args := []interface{}{}
	pos := 1

	if filters.Trade != "" {
		where = append(where, fmt.Sprintf("trade ILIKE $%d", pos))
		args = append(args, "%"+filters.Trade+"%")
		pos++
	}
	if filters.Location != "" {
		where = append(where, fmt.Sprintf("address ILIKE $%d", pos))
		args = append(args, "%"+filters.Location+"%")
		pos++
	}

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s
		ORDER BY average_rating DESC NULLS LAST, review_count DESC
		OFFSET $%d LIMIT $%d
	`, userColumns, strings.Join(where, " AND "), pos, pos+1)
	args = append(args, filters.Skip, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search artisans: %w", err)
	}
	defer rows.Close()

	var out []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
