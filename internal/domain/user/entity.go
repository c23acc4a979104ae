// internal/domain/user/entity.go
package user

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type UserType string

const (
	TypeClient  UserType = "client"
	TypeArtisan UserType = "artisan"
	TypeAdmin   UserType = "admin"
)

// User is the single users row shared by clients, artisans and admins.
// Artisan-only columns are null for the other types.
type User struct {
	ID             string   `json:"id" db:"id"`
	Email          string   `json:"email" db:"email"`
	PasswordHash   string   `json:"-" db:"password_hash"`
	UserType       UserType `json:"user_type" db:"user_type"`
	FirstName      string   `json:"first_name" db:"first_name"`
	LastName       string   `json:"last_name" db:"last_name"`
	Phone          string   `json:"phone" db:"phone"`
	Language       string   `json:"language" db:"language"`
	Address        sql.NullString `json:"address,omitempty" db:"address"`
	ProfilePicture sql.NullString `json:"profile_picture,omitempty" db:"profile_picture"`

	// Artisan fields
	CompanyName       sql.NullString `json:"company_name,omitempty" db:"company_name"`
	Trade             sql.NullString `json:"trade,omitempty" db:"trade"`
	Description       sql.NullString `json:"description,omitempty" db:"description"`
	YearsOfExperience sql.NullInt32  `json:"years_of_experience,omitempty" db:"years_of_experience"`
	Certifications    pq.StringArray `json:"certifications,omitempty" db:"certifications"`
	Portfolio         pq.StringArray `json:"portfolio,omitempty" db:"portfolio"`
	IdentityDocuments map[string]string `json:"identity_documents,omitempty" db:"identity_documents"`
	IsVerified        bool            `json:"is_verified" db:"is_verified"`
	AverageRating     sql.NullFloat64 `json:"average_rating,omitempty" db:"average_rating"`
	ReviewCount       int             `json:"review_count" db:"review_count"`

	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Summary is the embedded shape used by booking/review/ticket detail responses.
type Summary struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	UserType       string  `json:"user_type,omitempty"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
	CompanyName    *string `json:"company_name,omitempty"`
	Trade          string  `json:"trade,omitempty"`
	IsVerified     bool    `json:"is_verified,omitempty"`
}

func (u *User) Summary() Summary {
	s := Summary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		UserType:  string(u.UserType),
	}
	if u.ProfilePicture.Valid {
		s.ProfilePicture = &u.ProfilePicture.String
	}
	if u.CompanyName.Valid {
		s.CompanyName = &u.CompanyName.String
	}
	if u.Trade.Valid {
		s.Trade = u.Trade.String
	}
	s.IsVerified = u.IsVerified
	return s
}
