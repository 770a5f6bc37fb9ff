package tracking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
)

type Service interface {
	// Record stores a heartbeat for a public property. Views by the
	// property's own host are ignored.
	Record(ctx context.Context, propertyID string, viewerID string, hb Heartbeat) error
	// PropertyStats returns the views of one property since the given time.
	PropertyStats(ctx context.Context, propertyID string, since time.Time, actorID string, isSysAdmin bool) (*Stats, error)
	// Stats aggregates views over several properties without access checks.
	Stats(ctx context.Context, propertyIDs []string, since time.Time) (*Stats, error)
}

// PropertyAccess is the part of property.Service tracking depends on.
type PropertyAccess interface {
	GetByID(ctx context.Context, id string) (*property.Property, error)
	Authorize(ctx context.Context, id string, actorID string, isSysAdmin bool) (*property.Property, error)
}

type service struct {
	repo       Repository
	properties PropertyAccess
	clock      clock.Clock
}

func NewService(repo Repository, properties PropertyAccess, clk clock.Clock) Service {
	return &service{repo: repo, properties: properties, clock: clk}
}

func (s *service) Record(ctx context.Context, propertyID string, viewerID string, hb Heartbeat) error {
	hb.SessionID = strings.TrimSpace(hb.SessionID)
	if hb.SessionID == "" {
		return ErrSessionRequired
	}
	if len(hb.SessionID) > maxSessionIDLength {
		return ErrSessionTooLong
	}

	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return ErrPropertyNotFound
		}
		return err
	}
	if !p.IsActive {
		return ErrPropertyNotFound
	}
	if viewerID != "" && viewerID == p.HostID {
		return nil
	}

	v := View{PropertyID: p.ID, SessionID: hb.SessionID}
	if viewerID != "" {
		v.ViewerID = &viewerID
	}
	return s.repo.Upsert(ctx, Merge(v, hb, s.clock.Now()))
}

func (s *service) PropertyStats(ctx context.Context, propertyID string, since time.Time, actorID string, isSysAdmin bool) (*Stats, error) {
	if _, err := s.properties.Authorize(ctx, propertyID, actorID, isSysAdmin); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, []string{propertyID}, since)
}

func (s *service) Stats(ctx context.Context, propertyIDs []string, since time.Time) (*Stats, error) {
	return s.repo.Stats(ctx, propertyIDs, since)
}
