// internal/domain/booking/dto.go
package booking

import "time"

type CreateBookingRequest struct {
	ClientID      string     `json:"client_id" binding:"required"`
	ArtisanID     string     `json:"artisan_id" binding:"required"`
	ServiceType   string     `json:"service_type" binding:"required"`
	Description   string     `json:"description" binding:"required"`
	Address       string     `json:"address"`
	Urgency       Urgency    `json:"urgency"`
	ScheduledDate *time.Time `json:"scheduled_date"`
}

type UpdateBookingRequest struct {
	Description   *string    `json:"description"`
	Address       *string    `json:"address"`
	Urgency       *Urgency   `json:"urgency"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Status        *Status    `json:"status"`
}

type ListFilters struct {
	Status Status `form:"status"`
	Skip   int    `form:"skip" binding:"min=0"`
	Limit  int    `form:"limit" binding:"min=0,max=1000"`
}

type Stats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	Confirmed  int64 `json:"confirmed"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
}
