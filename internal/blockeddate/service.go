package blockeddate

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
)

type BlockRequest struct {
	PropertyID string
	From       availability.Date
	To         availability.Date // exclusive
	Reason     *string
}

type Service interface {
	// Block takes [From, To) off the market. Days already blocked are kept
	// as they are; the result counts newly blocked days.
	Block(ctx context.Context, req BlockRequest, actorID string, isSysAdmin bool) (int, error)
	Unblock(ctx context.Context, propertyID string, from, to availability.Date, actorID string, isSysAdmin bool) (int, error)
	List(ctx context.Context, propertyID string, from, to availability.Date, actorID string, isSysAdmin bool) ([]*BlockedDate, error)
}

// PropertyAuthorizer is the part of property.Service used to check host rights.
type PropertyAuthorizer interface {
	Authorize(ctx context.Context, id string, actorID string, isSysAdmin bool) (*property.Property, error)
}

type service struct {
	repo         Repository
	properties   PropertyAuthorizer
	availability availability.Service
	clock        clock.Clock
}

func NewService(repo Repository, properties PropertyAuthorizer, avail availability.Service, clk clock.Clock) Service {
	return &service{
		repo:         repo,
		properties:   properties,
		availability: avail,
		clock:        clk,
	}
}

func checkSpan(from, to availability.Date) error {
	if !to.After(from) {
		return ErrZeroLength
	}
	if from.DaysUntil(to) > maxBlockRangeDays {
		return ErrRangeTooLong
	}
	return nil
}

func (s *service) Block(ctx context.Context, req BlockRequest, actorID string, isSysAdmin bool) (int, error) {
	p, err := s.properties.Authorize(ctx, req.PropertyID, actorID, isSysAdmin)
	if err != nil {
		return 0, err
	}

	// Hosts may block over existing bookings; only the shape of the range matters.
	today := availability.DateOf(s.clock.Now())
	ok, reason := availability.NewSnapshot(nil, nil).IsRangeSelectable(req.From, req.To, availability.RoleHost, today)
	if !ok {
		if reason == availability.ReasonPastDate {
			return 0, ErrPastDate
		}
		return 0, ErrZeroLength
	}
	if err := checkSpan(req.From, req.To); err != nil {
		return 0, err
	}

	var reasonText *string
	if req.Reason != nil {
		r := strings.TrimSpace(*req.Reason)
		if utf8.RuneCountInString(r) > maxReasonLength {
			return 0, ErrReasonTooLong
		}
		if r != "" {
			reasonText = &r
		}
	}

	days := make([]availability.Date, 0, req.From.DaysUntil(req.To))
	for d := req.From; d.Before(req.To); d = d.AddDays(1) {
		days = append(days, d)
	}

	n, err := s.repo.Insert(ctx, p.ID, days, reasonText)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.availability.Invalidate(ctx, p.ID)
	}

	zerolog.Ctx(ctx).Info().
		Str("property_id", p.ID).
		Stringer("from", req.From).
		Stringer("to", req.To).
		Int("blocked", n).
		Msg("dates blocked")

	return n, nil
}

func (s *service) Unblock(ctx context.Context, propertyID string, from, to availability.Date, actorID string, isSysAdmin bool) (int, error) {
	p, err := s.properties.Authorize(ctx, propertyID, actorID, isSysAdmin)
	if err != nil {
		return 0, err
	}
	if err := checkSpan(from, to); err != nil {
		return 0, err
	}

	n, err := s.repo.DeleteRange(ctx, p.ID, from, to)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.availability.Invalidate(ctx, p.ID)
	}
	return n, nil
}

func (s *service) List(ctx context.Context, propertyID string, from, to availability.Date, actorID string, isSysAdmin bool) ([]*BlockedDate, error) {
	p, err := s.properties.Authorize(ctx, propertyID, actorID, isSysAdmin)
	if err != nil {
		return nil, err
	}
	if !to.After(from) {
		return nil, ErrInvalidWindow
	}
	return s.repo.List(ctx, p.ID, from, to)
}
