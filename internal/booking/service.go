package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
)

type CreateRequest struct {
	GuestID    string
	PropertyID string
	CheckIn    availability.Date
	CheckOut   availability.Date
	Guests     int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string, actorID string, isSysAdmin bool) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, next Status, actorID string, isSysAdmin bool) (*Booking, error)
	ListOverlapping(ctx context.Context, propertyIDs []string, from, to availability.Date) ([]*Booking, error)
}

// PropertyReader is the part of property.Service bookings depend on.
type PropertyReader interface {
	GetByID(ctx context.Context, id string) (*property.Property, error)
}

type service struct {
	repo         Repository
	properties   PropertyReader
	availability availability.Service
	clock        clock.Clock
}

func NewService(repo Repository, properties PropertyReader, avail availability.Service, clk clock.Clock) Service {
	return &service{
		repo:         repo,
		properties:   properties,
		availability: avail,
		clock:        clk,
	}
}

func (s *service) today() availability.Date {
	return availability.DateOf(s.clock.Now())
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	p, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, ErrPropertyInactive
	}
	if p.HostID == req.GuestID {
		return nil, ErrOwnProperty
	}
	if req.Guests < 1 || req.Guests > p.Capacity {
		return nil, ErrInvalidGuests
	}

	// Degenerate ranges are rejected without touching storage.
	snap := availability.NewSnapshot(nil, nil)
	if req.CheckOut.After(req.CheckIn) && req.CheckIn.DaysUntil(req.CheckOut) <= availability.MaxStayNights {
		snap, err = s.availability.Snapshot(ctx, p.ID, req.CheckIn, req.CheckOut)
		if err != nil {
			return nil, err
		}
	}
	if ok, reason := snap.IsRangeSelectable(req.CheckIn, req.CheckOut, availability.RoleGuest, s.today()); !ok {
		return nil, reasonError(reason)
	}

	b := &Booking{
		PropertyID:    p.ID,
		PropertyTitle: p.Title,
		HostID:        p.HostID,
		GuestID:       req.GuestID,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Status:        StatusPending,
		Guests:        req.Guests,
	}
	b.TotalPrice = TotalPrice(b.Nights(), p.PricePerNight, p.CleaningFee)

	// The snapshot may be stale; the exclusion constraint decides races.
	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, ErrDateConflict) {
			s.availability.Invalidate(ctx, p.ID)
		}
		return nil, err
	}
	s.availability.Invalidate(ctx, p.ID)

	zerolog.Ctx(ctx).Info().
		Str("booking_id", b.ID).
		Str("property_id", b.PropertyID).
		Stringer("check_in", b.CheckIn).
		Stringer("check_out", b.CheckOut).
		Msg("booking created")

	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string, actorID string, isSysAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isSysAdmin && b.GuestID != actorID && b.HostID != actorID {
		// Do not reveal that the booking exists.
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, 0, ErrInvalidDateRange
	}
	return s.repo.List(ctx, filter)
}

func (s *service) ListOverlapping(ctx context.Context, propertyIDs []string, from, to availability.Date) ([]*Booking, error) {
	return s.repo.ListOverlapping(ctx, propertyIDs, from, to)
}

func (s *service) UpdateStatus(ctx context.Context, id string, next Status, actorID string, isSysAdmin bool) (*Booking, error) {
	if _, err := ParseStatus(string(next)); err != nil {
		return nil, err
	}

	b, err := s.GetByID(ctx, id, actorID, isSysAdmin)
	if err != nil {
		return nil, err
	}

	isHost := b.HostID == actorID
	isGuest := b.GuestID == actorID

	// Guests may only withdraw; hosts and admins drive the rest of the lifecycle.
	if !isSysAdmin && !isHost && !(isGuest && next == StatusCancelled) {
		return nil, ErrPermissionDenied
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}
	if next == StatusCheckedIn && s.today().Before(b.CheckIn) {
		return nil, ErrCheckInTooEarly
	}

	prev := b.Status
	b.Status = next
	if err := s.repo.UpdateStatus(ctx, b, prev); err != nil {
		return nil, err
	}

	if prev.Hold() != next.Hold() {
		s.availability.Invalidate(ctx, b.PropertyID)
	}

	zerolog.Ctx(ctx).Info().
		Str("booking_id", b.ID).
		Str("from", string(prev)).
		Str("to", string(next)).
		Str("actor_id", actorID).
		Msg("booking status changed")

	return b, nil
}
