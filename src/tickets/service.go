package tickets

import (
	"context"
	"errors"
	"fmt"
	"livevibe/src/issuance"
	"livevibe/src/lib"
	"livevibe/src/models"
	"livevibe/src/types"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MSG_TICKET_VALID    = "Ticket is valid."
	MSG_TICKET_UNSOLD   = "Ticket has not been sold."
	MSG_TICKET_REFUNDED = "Ticket has been refunded."
	MSG_EVENT_HAPPENED  = "Event already happened."
)

type Repository interface {
	GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	SetTicketQRCode(ctx context.Context, id uuid.UUID, code string) error
}

type Service struct {
	repo      Repository
	qr        lib.QRGenerator
	cache     lib.Cache
	ttl       time.Duration
	now       func() time.Time
	ticketURL func(uuid.UUID) string
}

type Option func(*Service)

func WithCache(cache lib.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.ttl = ttl
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTicketURL(fn func(uuid.UUID) string) Option {
	return func(s *Service) { s.ticketURL = fn }
}

func NewService(repo Repository, qr lib.QRGenerator, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		qr:        qr,
		ttl:       24 * time.Hour,
		now:       time.Now,
		ticketURL: issuance.VerificationURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("ticketcode_%s", id)
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	ticket, err := s.repo.GetTicket(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("Ticket not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("loading ticket %s: %w", id, err)
	}
	return ticket, nil
}

// Verify reports whether the ticket grants admission right now.
func (s *Service) Verify(ctx context.Context, id uuid.UUID) (*types.TicketVerificationResponse, error) {
	ticket, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	res := &types.TicketVerificationResponse{IsValid: true, Message: MSG_TICKET_VALID}
	switch {
	case ticket.OrderID == nil:
		res.IsValid, res.Message = false, MSG_TICKET_UNSOLD
	case ticket.WasRefunded:
		res.IsValid, res.Message = false, MSG_TICKET_REFUNDED
	case ticket.Event != nil && ticket.Event.HasHappened(s.now()):
		res.IsValid, res.Message = false, MSG_EVENT_HAPPENED
	}

	details := &types.TicketVerificationDetails{Seat: ticket.Seat}
	if ticket.Event != nil {
		details.EventTitle = ticket.Event.Title
		details.EventTime = ticket.Event.Time
	}
	if ticket.SeatType != nil {
		details.SeatingCategory = ticket.SeatType.Name
	}
	res.TicketDetails = details
	return res, nil
}

// QRCode returns the ticket's QR payload to its owner or an admin. The payload
// is generated on first request and cached in redis afterwards.
func (s *Service) QRCode(ctx context.Context, userID uuid.UUID, isAdmin bool, id uuid.UUID) (string, error) {
	ticket, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if !isAdmin && (ticket.Order == nil || !ticket.Order.BelongsTo(userID)) {
		return "", types.Unauthorized("Ticket belongs to another user.")
	}

	key := cacheKey(id)
	if s.cache != nil {
		code, err := s.cache.Get(ctx, key)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, lib.ErrCacheMiss) {
			log.Printf("Error reading %s from cache: %s\n", key, err.Error())
		}
	}

	var code string
	if ticket.QRCode != nil && *ticket.QRCode != "" {
		code = *ticket.QRCode
	} else {
		code, err = s.qr.Generate(s.ticketURL(ticket.ID))
		if err != nil {
			return "", fmt.Errorf("generating qr code: %w", err)
		}
		if err := s.repo.SetTicketQRCode(ctx, ticket.ID, code); err != nil {
			return "", fmt.Errorf("saving qr code: %w", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, code, s.ttl); err != nil {
			log.Printf("Error caching %s: %s\n", key, err.Error())
		}
	}
	return code, nil
}
