package attendee

import (
	"context"
	"strings"

	"edge-tickets/internal/logger"
	"edge-tickets/internal/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Service defines the ticket lookup use case.
type Service interface {
	GetTicketsByEmail(ctx context.Context, email string) ([]*AttendeeTickets, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetTicketsByEmail returns one entry per popup city the email holds an
// attendee record for. The result is never nil. Only surrounding whitespace
// is stripped here; case folding is left to the store.
func (s *service) GetTicketsByEmail(ctx context.Context, email string) ([]*AttendeeTickets, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	ctx, span := tracer.Start(ctx, "attendee.service.GetTicketsByEmail")
	defer span.End()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetTicketsByEmail"),
		zap.String("email", utils.MaskEmail(email)),
	)

	attendees, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		log.Error("failed to find attendees", zap.Error(err))
		return nil, err
	}

	if len(attendees) == 0 {
		log.Info("no attendees found")
		return []*AttendeeTickets{}, nil
	}

	ids := make([]int64, 0, len(attendees))
	for _, a := range attendees {
		ids = append(ids, a.ID)
	}

	products, err := s.repo.GetProductsByAttendeeIDs(ctx, ids)
	if err != nil {
		log.Error("failed to get products", zap.Error(err))
		return nil, err
	}

	tickets := groupByPopup(attendees, products)

	span.SetAttributes(attribute.Int("tickets.count", len(tickets)))
	log.Info("GetTicketsByEmail success", zap.Int("count", len(tickets)))
	return tickets, nil
}

// groupByPopup folds attendee rows into one entry per popup city, keeping the
// first row's identity and the order in which popups first appear.
func groupByPopup(attendees []*Attendee, products map[int64][]*Product) []*AttendeeTickets {
	tickets := make([]*AttendeeTickets, 0, len(attendees))
	byPopup := make(map[int64]*AttendeeTickets, len(attendees))

	for _, a := range attendees {
		entry, ok := byPopup[a.PopupID]
		if !ok {
			entry = &AttendeeTickets{
				Name:      a.Name,
				Email:     a.Email,
				Category:  a.Category,
				PopupCity: a.PopupCity,
				Products:  []*Product{},
			}
			byPopup[a.PopupID] = entry
			tickets = append(tickets, entry)
		}
		entry.Products = append(entry.Products, products[a.ID]...)
	}

	return tickets
}
