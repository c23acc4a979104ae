// internal/domain/review/dto.go
package review

type CreateReviewRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	ArtisanID string `json:"artisan_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

type RatingStats struct {
	ArtisanID          string        `json:"artisan_id"`
	AverageRating      float64       `json:"average_rating"`
	ReviewCount        int64         `json:"review_count"`
	RatingDistribution map[int]int64 `json:"rating_distribution"`
}
