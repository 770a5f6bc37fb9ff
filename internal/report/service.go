package report

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/booking"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
	"github.com/nekogravitycat/rental-booking-backend/internal/tracking"
)

// PropertySummary is the Summary of a single property.
type PropertySummary struct {
	PropertyID    string `json:"property_id"`
	PropertyTitle string `json:"property_title,omitempty"`
	Summary
}

// Dashboard is a host's portfolio overview.
type Dashboard struct {
	Total       Summary           `json:"total"`
	PerProperty []PropertySummary `json:"per_property"`
	Views       *tracking.Stats   `json:"views"`
}

// PropertyReport is the overview of one property.
type PropertyReport struct {
	Summary
	Views *tracking.Stats `json:"views"`
}

type Service interface {
	HostDashboard(ctx context.Context, hostID string, period Period) (*Dashboard, error)
	PropertyReport(ctx context.Context, propertyID string, period Period, actorID string, isSysAdmin bool) (*PropertyReport, error)
}

// PropertyAccess is the part of property.Service reports depend on.
type PropertyAccess interface {
	ListIDsByHost(ctx context.Context, hostID string) ([]string, error)
	Authorize(ctx context.Context, id string, actorID string, isSysAdmin bool) (*property.Property, error)
}

type BookingSource interface {
	ListOverlapping(ctx context.Context, propertyIDs []string, from, to availability.Date) ([]*booking.Booking, error)
}

type ViewSource interface {
	Stats(ctx context.Context, propertyIDs []string, since time.Time) (*tracking.Stats, error)
}

type service struct {
	properties PropertyAccess
	bookings   BookingSource
	views      ViewSource
}

func NewService(properties PropertyAccess, bookings BookingSource, views ViewSource) Service {
	return &service{properties: properties, bookings: bookings, views: views}
}

// load fetches the bookings overlapping the period and the view stats since
// its first day concurrently.
func (s *service) load(ctx context.Context, propertyIDs []string, period Period) ([]*booking.Booking, *tracking.Stats, error) {
	var (
		bookings []*booking.Booking
		views    *tracking.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = s.bookings.ListOverlapping(gctx, propertyIDs, period.From, period.To)
		return err
	})
	g.Go(func() error {
		var err error
		views, err = s.views.Stats(gctx, propertyIDs, period.From.Time())
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return bookings, views, nil
}

func (s *service) HostDashboard(ctx context.Context, hostID string, period Period) (*Dashboard, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	ids, err := s.properties.ListIDsByHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &Dashboard{
			Total:       Summarize(period, 0, nil),
			PerProperty: []PropertySummary{},
			Views:       &tracking.Stats{},
		}, nil
	}

	bookings, views, err := s.load(ctx, ids, period)
	if err != nil {
		return nil, err
	}

	byProperty := make(map[string][]*booking.Booking, len(ids))
	titles := make(map[string]string, len(ids))
	for _, b := range bookings {
		byProperty[b.PropertyID] = append(byProperty[b.PropertyID], b)
		titles[b.PropertyID] = b.PropertyTitle
	}

	perProperty := make([]PropertySummary, 0, len(ids))
	for _, id := range ids {
		perProperty = append(perProperty, PropertySummary{
			PropertyID:    id,
			PropertyTitle: titles[id],
			Summary:       Summarize(period, 1, byProperty[id]),
		})
	}
	sort.SliceStable(perProperty, func(i, j int) bool {
		return perProperty[i].OccupancyRate > perProperty[j].OccupancyRate
	})

	return &Dashboard{
		Total:       Summarize(period, len(ids), bookings),
		PerProperty: perProperty,
		Views:       views,
	}, nil
}

func (s *service) PropertyReport(ctx context.Context, propertyID string, period Period, actorID string, isSysAdmin bool) (*PropertyReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	p, err := s.properties.Authorize(ctx, propertyID, actorID, isSysAdmin)
	if err != nil {
		return nil, err
	}

	bookings, views, err := s.load(ctx, []string{p.ID}, period)
	if err != nil {
		return nil, err
	}

	return &PropertyReport{
		Summary: Summarize(period, 1, bookings),
		Views:   views,
	}, nil
}
