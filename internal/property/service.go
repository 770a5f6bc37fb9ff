package property

import (
	"context"
	"strings"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
)

// CreateRequest carries data to create a listing. HostID is the caller.
type CreateRequest struct {
	HostID        string
	Title         string
	Description   string
	Address       string
	City          string
	Country       string
	Capacity      int
	Bedrooms      int
	Bathrooms     int
	PricePerNight int64
	CleaningFee   int64
}

// UpdateRequest carries data for partial updates.
type UpdateRequest struct {
	Title         *string
	Description   *string
	Address       *string
	City          *string
	Country       *string
	Capacity      *int
	Bedrooms      *int
	Bathrooms     *int
	PricePerNight *int64
	CleaningFee   *int64
	IsActive      *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Property, error)
	GetByID(ctx context.Context, id string) (*Property, error)
	List(ctx context.Context, filter Filter) ([]*Property, int, error)
	ListIDsByHost(ctx context.Context, hostID string) ([]string, error)
	Update(ctx context.Context, id string, req UpdateRequest, actorID string, isSysAdmin bool) (*Property, error)
	Delete(ctx context.Context, id string, actorID string, isSysAdmin bool) error
	// Authorize loads the property and checks that actorID is its host or a system admin.
	Authorize(ctx context.Context, id string, actorID string, isSysAdmin bool) (*Property, error)
}

type service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) Service {
	return &service{repo: repo, clock: clk}
}

func validateProperty(p *Property) error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if p.Capacity < 1 {
		return ErrInvalidCapacity
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 {
		return ErrInvalidRooms
	}
	if p.PricePerNight < 0 || p.CleaningFee < 0 {
		return ErrInvalidPrice
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Property, error) {
	p := &Property{
		HostID:        req.HostID,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Address:       req.Address,
		City:          strings.TrimSpace(req.City),
		Country:       strings.TrimSpace(req.Country),
		Capacity:      req.Capacity,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		PricePerNight: req.PricePerNight,
		CleaningFee:   req.CleaningFee,
		IsActive:      true,
	}
	if err := validateProperty(p); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Property, int, error) {
	if (filter.AvailableFrom == nil) != (filter.AvailableTo == nil) {
		return nil, 0, ErrInvalidDateRange
	}
	if filter.AvailableFrom != nil && !filter.AvailableTo.After(*filter.AvailableFrom) {
		return nil, 0, ErrInvalidDateRange
	}
	return s.repo.List(ctx, filter)
}

func (s *service) ListIDsByHost(ctx context.Context, hostID string) ([]string, error) {
	return s.repo.ListIDsByHost(ctx, hostID)
}

func (s *service) Authorize(ctx context.Context, id string, actorID string, isSysAdmin bool) (*Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsManagedBy(actorID, isSysAdmin) {
		return nil, ErrPermissionDenied
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest, actorID string, isSysAdmin bool) (*Property, error) {
	p, err := s.Authorize(ctx, id, actorID, isSysAdmin)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.City != nil {
		p.City = strings.TrimSpace(*req.City)
	}
	if req.Country != nil {
		p.Country = strings.TrimSpace(*req.Country)
	}
	if req.Capacity != nil {
		p.Capacity = *req.Capacity
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.PricePerNight != nil {
		p.PricePerNight = *req.PricePerNight
	}
	if req.CleaningFee != nil {
		p.CleaningFee = *req.CleaningFee
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := validateProperty(p); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string, actorID string, isSysAdmin bool) error {
	if _, err := s.Authorize(ctx, id, actorID, isSysAdmin); err != nil {
		return err
	}

	today := availability.DateOf(s.clock.Now())
	upcoming, err := s.repo.HasUpcomingBookings(ctx, id, today.Time())
	if err != nil {
		return err
	}
	if upcoming {
		return ErrHasBookings
	}

	return s.repo.Delete(ctx, id)
}
