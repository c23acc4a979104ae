// internal/domain/user/dto.go
package user

import "time"

type RegisterClientRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Language  string `json:"language"`
	Address   string `json:"address"`
}

type RegisterArtisanRequest struct {
	Email             string   `json:"email" binding:"required,email"`
	Password          string   `json:"password" binding:"required,min=8"`
	Phone             string   `json:"phone" binding:"required"`
	FirstName         string   `json:"first_name" binding:"required"`
	LastName          string   `json:"last_name" binding:"required"`
	Language          string   `json:"language"`
	Address           string   `json:"address"`
	CompanyName       string   `json:"company_name"`
	Trade             string   `json:"trade" binding:"required"`
	Description       string   `json:"description"`
	YearsOfExperience int      `json:"years_of_experience"`
	Certifications    []string `json:"certifications"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserType    string `json:"user_type"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"reset_token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type UpdateUserRequest struct {
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	Language       *string `json:"language"`
	Password       *string `json:"password" binding:"omitempty,min=8"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Address        *string `json:"address"`
	ProfilePicture *string `json:"profile_picture"`

	// Artisan-only, ignored for clients
	CompanyName       *string  `json:"company_name"`
	Trade             *string  `json:"trade"`
	Description       *string  `json:"description"`
	YearsOfExperience *int     `json:"years_of_experience"`
	Certifications    []string `json:"certifications"`
}

type SearchArtisansFilters struct {
	Trade    string `form:"trade"`
	Location string `form:"location"`
	Skip     int    `form:"skip"`
	Limit    int    `form:"limit"`
}

// Response shapes the user row by role, never exposing the password hash.
type Response struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	UserType       string    `json:"user_type"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          string    `json:"phone"`
	Language       string    `json:"language"`
	Address        *string   `json:"address,omitempty"`
	ProfilePicture *string   `json:"profile_picture,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	CompanyName       *string           `json:"company_name,omitempty"`
	Trade             *string           `json:"trade,omitempty"`
	Description       *string           `json:"description,omitempty"`
	YearsOfExperience *int              `json:"years_of_experience,omitempty"`
	Certifications    []string          `json:"certifications,omitempty"`
	Portfolio         []string          `json:"portfolio,omitempty"`
	IdentityDocuments map[string]string `json:"identity_documents,omitempty"`
	IsVerified        *bool             `json:"is_verified,omitempty"`
	AverageRating     *float64          `json:"average_rating,omitempty"`
	ReviewCount       *int              `json:"review_count,omitempty"`
}

func NewResponse(u *User) *Response {
	r := &Response{
		ID:        u.ID,
		Email:     u.Email,
		UserType:  string(u.UserType),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Language:  u.Language,
		CreatedAt: u.CreatedAt,
	}
	if u.Address.Valid {
		r.Address = &u.Address.String
	}
	if u.ProfilePicture.Valid {
		r.ProfilePicture = &u.ProfilePicture.String
	}
	if u.UserType != TypeArtisan {
		return r
	}
	if u.CompanyName.Valid {
		r.CompanyName = &u.CompanyName.String
	}
	if u.Trade.Valid {
		r.Trade = &u.Trade.String
	}
	if u.Description.Valid {
		r.Description = &u.Description.String
	}
	if u.YearsOfExperience.Valid {
		years := int(u.YearsOfExperience.Int32)
		r.YearsOfExperience = &years
	}
	r.Certifications = u.Certifications
	r.Portfolio = u.Portfolio
	r.IdentityDocuments = u.IdentityDocuments
	verified := u.IsVerified
	r.IsVerified = &verified
	if u.AverageRating.Valid {
		r.AverageRating = &u.AverageRating.Float64
	}
	count := u.ReviewCount
	r.ReviewCount = &count
	return r
}
