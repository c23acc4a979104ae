// internal/service/ticket/ticket.go
package ticket

import (
	"context"
	"time"

	"hrayfi-service/internal/domain/ticket"
	xerrors "hrayfi-service/internal/pkg/errors"
	"hrayfi-service/internal/repository/postgres"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type TicketService struct {
	ticketRepo *postgres.TicketRepository
	userRepo   *postgres.UserRepository
	logger     *zap.Logger
}

func NewTicketService(ticketRepo *postgres.TicketRepository, userRepo *postgres.UserRepository, logger *zap.Logger) *TicketService {
	return &TicketService{ticketRepo: ticketRepo, userRepo: userRepo, logger: logger}
}

// Create opens a support ticket for the caller.
func (s *TicketService) Create(ctx context.Context, callerID string, req *ticket.CreateTicketRequest) (*ticket.Ticket, error) {
	if !req.Category.Valid() {
		return nil, xerrors.ErrInvalidInput
	}
	priority := req.Priority
	if priority == "" {
		priority = ticket.PriorityMedium
	}
	if !priority.Valid() {
		return nil, xerrors.ErrInvalidInput
	}

	t := &ticket.Ticket{
		UserID:      callerID,
		Subject:     req.Subject,
		Description: req.Description,
		Category:    req.Category,
		Priority:    priority,
	}
	if err := s.ticketRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("ticket created",
		zap.String("ticket_number", t.TicketNumber), zap.String("user_id", callerID))
	return t, nil
}

// Get returns one ticket. Owners and admins only.
func (s *TicketService) Get(ctx context.Context, callerID, callerType, ticketID string) (*ticket.Detailed, error) {
	t, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if callerType != "admin" && t.UserID != callerID {
		return nil, xerrors.ErrForbidden
	}

	d := &ticket.Detailed{Ticket: *t}
	if u, err := s.userRepo.FindByID(ctx, t.UserID); err == nil {
		summary := u.Summary()
		d.User = &summary
	}
	return d, nil
}

// List returns the caller's tickets, or every ticket for admins.
func (s *TicketService) List(ctx context.Context, callerID, callerType string, filters ticket.ListFilters) ([]*ticket.Ticket, error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, xerrors.ErrInvalidInput
	}
	if filters.Priority != "" && !filters.Priority.Valid() {
		return nil, xerrors.ErrInvalidInput
	}
	if callerType == "admin" {
		return s.ticketRepo.ListAll(ctx, filters)
	}
	return s.ticketRepo.ListForUser(ctx, callerID, filters)
}

// Update edits an open ticket's request fields. Owners only, and only
// while the ticket is still open.
func (s *TicketService) Update(ctx context.Context, callerID, ticketID string, req *ticket.UpdateTicketRequest) (*ticket.Ticket, error) {
	t, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.UserID != callerID {
		return nil, xerrors.ErrForbidden
	}
	if t.Status != ticket.StatusOpen {
		return nil, xerrors.ErrInvalidInput
	}
	if req.Category != nil && !req.Category.Valid() {
		return nil, xerrors.ErrInvalidInput
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return nil, xerrors.ErrInvalidInput
	}

	if err := s.ticketRepo.Update(ctx, ticketID, req); err != nil {
		return nil, err
	}
	return s.ticketRepo.FindByID(ctx, ticketID)
}

// UpdateStatus moves a ticket through its lifecycle. Admin only, enforced
// at the route.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, req *ticket.UpdateStatusRequest) (*ticket.Ticket, error) {
	if !req.Status.Valid() {
		return nil, xerrors.ErrInvalidInput
	}
	if err := s.ticketRepo.UpdateStatus(ctx, ticketID, req.Status, req.AdminNotes); err != nil {
		return nil, err
	}
	return s.ticketRepo.FindByID(ctx, ticketID)
}

// AddResponse appends a message to the ticket thread. Owners and admins.
func (s *TicketService) AddResponse(ctx context.Context, callerID, callerType, ticketID, message string) (*ticket.Ticket, error) {
	t, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if callerType != "admin" && t.UserID != callerID {
		return nil, xerrors.ErrForbidden
	}

	resp := ticket.Response{
		ID:         ulid.Make().String(),
		AuthorID:   callerID,
		AuthorType: callerType,
		Message:    message,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.ticketRepo.AppendResponse(ctx, ticketID, resp); err != nil {
		return nil, err
	}
	return s.ticketRepo.FindByID(ctx, ticketID)
}

// Delete removes a ticket. Admin only, enforced at the route.
func (s *TicketService) Delete(ctx context.Context, ticketID string) error {
	return s.ticketRepo.Delete(ctx, ticketID)
}

// Stats counts tickets by status. Admin only, enforced at the route.
func (s *TicketService) Stats(ctx context.Context) (*ticket.Stats, error) {
	return s.ticketRepo.Stats(ctx)
}

// MyStats counts the caller's own tickets by status.
func (s *TicketService) MyStats(ctx context.Context, callerID string) (*ticket.Stats, error) {
	return s.ticketRepo.StatsForUser(ctx, callerID)
}
