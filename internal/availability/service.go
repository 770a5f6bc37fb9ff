package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/cache"
)

// ReservationSource returns the non-cancelled reservations of a property
// overlapping [from, to).
type ReservationSource interface {
	Reservations(ctx context.Context, propertyID string, from, to Date) ([]Reservation, error)
}

// BlockedSource returns the blocked days of a property within [from, to).
type BlockedSource interface {
	BlockedDays(ctx context.Context, propertyID string, from, to Date) ([]Date, error)
}

// Service loads calendar snapshots for properties.
type Service interface {
	// Snapshot returns the reservations and blocked days affecting [from, to).
	Snapshot(ctx context.Context, propertyID string, from, to Date) (*Snapshot, error)
	// Invalidate drops every cached window of the property. It never fails;
	// cache errors are logged.
	Invalidate(ctx context.Context, propertyID string)
}

type service struct {
	reservations ReservationSource
	blocked      BlockedSource
	cache        cache.Cache
	ttl          time.Duration
}

func NewService(reservations ReservationSource, blocked BlockedSource, c cache.Cache, ttl time.Duration) Service {
	if c == nil {
		c = cache.Noop()
	}
	return &service{
		reservations: reservations,
		blocked:      blocked,
		cache:        c,
		ttl:          ttl,
	}
}

// cachedWindow is the wire form of a snapshot window in the cache.
type cachedWindow struct {
	Reservations []cachedReservation `json:"reservations"`
	Blocked      []Date              `json:"blocked"`
}

type cachedReservation struct {
	ID       string `json:"id"`
	CheckIn  Date   `json:"check_in"`
	CheckOut Date   `json:"check_out"`
	Hold     Hold   `json:"hold"`
}

// Windows are cached under a per-property generation. Invalidate bumps the
// generation, orphaning older windows until they expire.
func generationKey(propertyID string) string {
	return "availability:" + propertyID + ":gen"
}

func windowKey(propertyID string, gen int64, from, to Date) string {
	return fmt.Sprintf("availability:%s:%d:%s:%s", propertyID, gen, from, to)
}

func (s *service) generation(ctx context.Context, propertyID string) int64 {
	var gen int64
	if err := s.cache.Get(ctx, generationKey(propertyID), &gen); err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			zerolog.Ctx(ctx).Warn().Err(err).Str("property_id", propertyID).Msg("availability cache generation read failed")
		}
		return 0
	}
	return gen
}

func (s *service) Snapshot(ctx context.Context, propertyID string, from, to Date) (*Snapshot, error) {
	log := zerolog.Ctx(ctx)

	gen := s.generation(ctx, propertyID)
	key := windowKey(propertyID, gen, from, to)

	var cached cachedWindow
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached.snapshot(), nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warn().Err(err).Str("key", key).Msg("availability cache read failed")
	}

	var (
		reservations []Reservation
		blocked      []Date
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reservations, err = s.reservations.Reservations(gctx, propertyID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		blocked, err = s.blocked.BlockedDays(gctx, propertyID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load availability for %s: %w", propertyID, err)
	}

	window := newCachedWindow(reservations, blocked)
	if err := s.cache.Set(ctx, key, window, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("availability cache write failed")
	}

	return NewSnapshot(reservations, blocked), nil
}

func (s *service) Invalidate(ctx context.Context, propertyID string) {
	// The generation must outlive every window written under the previous one.
	gen, err := s.cache.Incr(ctx, generationKey(propertyID), 2*s.ttl)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("property_id", propertyID).Msg("availability cache invalidation failed")
		return
	}
	zerolog.Ctx(ctx).Debug().Str("property_id", propertyID).Int64("generation", gen).Msg("availability cache invalidated")
}

func newCachedWindow(reservations []Reservation, blocked []Date) cachedWindow {
	w := cachedWindow{
		Reservations: make([]cachedReservation, 0, len(reservations)),
		Blocked:      blocked,
	}
	for _, r := range reservations {
		w.Reservations = append(w.Reservations, cachedReservation(r))
	}
	if w.Blocked == nil {
		w.Blocked = []Date{}
	}
	return w
}

func (w cachedWindow) snapshot() *Snapshot {
	reservations := make([]Reservation, 0, len(w.Reservations))
	for _, r := range w.Reservations {
		reservations = append(reservations, Reservation(r))
	}
	return NewSnapshot(reservations, w.Blocked)
}
