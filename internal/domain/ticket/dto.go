// internal/domain/ticket/dto.go
package ticket

type CreateTicketRequest struct {
	Subject     string   `json:"subject" binding:"required,max=255"`
	Description string   `json:"description" binding:"required"`
	Category    Category `json:"category" binding:"required"`
	Priority    Priority `json:"priority"`
}

type UpdateTicketRequest struct {
	Subject     *string   `json:"subject"`
	Description *string   `json:"description"`
	Category    *Category `json:"category"`
	Priority    *Priority `json:"priority"`
}

type UpdateStatusRequest struct {
	Status     Status `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

type AddResponseRequest struct {
	Message string `json:"message" binding:"required"`
}

type ListFilters struct {
	Status   Status   `form:"status"`
	Priority Priority `form:"priority"`
	Skip     int      `form:"skip" binding:"min=0"`
	Limit    int      `form:"limit" binding:"min=0,max=1000"`
}

type Stats struct {
	Total      int64 `json:"total"`
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
}
