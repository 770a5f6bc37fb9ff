package availability

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/cache"
)

type stubReservations struct {
	mu    sync.Mutex
	calls int
	rows  []Reservation
	err   error
}

func (s *stubReservations) Reservations(_ context.Context, _ string, _, _ Date) ([]Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.rows, s.err
}

type stubBlocked struct {
	mu    sync.Mutex
	calls int
	days  []Date
}

func (s *stubBlocked) BlockedDays(_ context.Context, _ string, _, _ Date) ([]Date, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.days, nil
}

// memoryCache round-trips values through JSON like the Redis implementation.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string][]byte{}} }

func (m *memoryCache) Get(_ context.Context, key string, dst any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(b, dst)
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = b
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	if b, ok := m.data[key]; ok {
		if err := json.Unmarshal(b, &n); err != nil {
			return 0, err
		}
	}
	n++
	m.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) error { return errors.New("connection refused") }

func (brokenCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) Delete(context.Context, ...string) error { return errors.New("connection refused") }

func (brokenCache) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestService_SnapshotUsesCache(t *testing.T) {
	res := &stubReservations{rows: []Reservation{
		{ID: "b1", CheckIn: d("2024-02-01"), CheckOut: d("2024-02-05"), Hold: HoldFirm},
		{ID: "b2", CheckIn: d("2024-02-06"), CheckOut: d("2024-02-08"), Hold: HoldTentative},
	}}
	blk := &stubBlocked{days: []Date{d("2024-02-10")}}
	mc := newMemoryCache()
	svc := NewService(res, blk, mc, time.Minute)
	ctx := context.Background()

	from, to := d("2024-02-01"), d("2024-03-01")

	first, err := svc.Snapshot(ctx, "p1", from, to)
	require.NoError(t, err)
	second, err := svc.Snapshot(ctx, "p1", from, to)
	require.NoError(t, err)

	assert.Equal(t, 1, res.calls)
	assert.Equal(t, 1, blk.calls)
	assert.Equal(t, first.Calendar(from, to), second.Calendar(from, to))
	assert.Equal(t, StatusBooked, second.StatusFor(d("2024-02-02")))
	assert.Equal(t, StatusPending, second.StatusFor(d("2024-02-07")))
	assert.Equal(t, StatusBlocked, second.StatusFor(d("2024-02-10")))

	// A different window is a different cache entry.
	_, err = svc.Snapshot(ctx, "p1", from, d("2024-02-15"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.calls)
}

func TestService_InvalidateForcesReload(t *testing.T) {
	res := &stubReservations{}
	blk := &stubBlocked{}
	svc := NewService(res, blk, newMemoryCache(), time.Minute)
	ctx := context.Background()
	from, to := d("2024-02-01"), d("2024-02-10")

	snap, err := svc.Snapshot(ctx, "p1", from, to)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, snap.StatusFor(d("2024-02-03")))

	res.rows = []Reservation{{ID: "new", CheckIn: d("2024-02-03"), CheckOut: d("2024-02-04"), Hold: HoldTentative}}
	svc.Invalidate(ctx, "p1")

	snap, err = svc.Snapshot(ctx, "p1", from, to)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, snap.StatusFor(d("2024-02-03")))
	assert.Equal(t, 2, res.calls)

	// Other properties keep their entries.
	_, err = svc.Snapshot(ctx, "p2", from, to)
	require.NoError(t, err)
	_, err = svc.Snapshot(ctx, "p2", from, to)
	require.NoError(t, err)
	assert.Equal(t, 3, res.calls)
}

func TestService_RepeatedInvalidationsEachForceReload(t *testing.T) {
	res := &stubReservations{}
	svc := NewService(res, &stubBlocked{}, newMemoryCache(), time.Minute)
	ctx := context.Background()
	from, to := d("2024-02-01"), d("2024-02-10")
	day := d("2024-02-03")

	snap, err := svc.Snapshot(ctx, "p1", from, to)
	require.NoError(t, err)
	assert.Equal(t, StatusAvailable, snap.StatusFor(day))

	res.rows = []Reservation{{ID: "b1", CheckIn: day, CheckOut: day.AddDays(1), Hold: HoldTentative}}
	svc.Invalidate(ctx, "p1")
	snap, err = svc.Snapshot(ctx, "p1", from, to)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, snap.StatusFor(day))

	// Every invalidation moves to a fresh generation.
	res.rows = []Reservation{{ID: "b1", CheckIn: day, CheckOut: day.AddDays(1), Hold: HoldFirm}}
	svc.Invalidate(ctx, "p1")
	snap, err = svc.Snapshot(ctx, "p1", from, to)
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, snap.StatusFor(day))
	assert.Equal(t, 3, res.calls)
}

func TestService_CacheFailureFallsBackToSource(t *testing.T) {
	res := &stubReservations{rows: []Reservation{{CheckIn: d("2024-02-01"), CheckOut: d("2024-02-03"), Hold: HoldFirm}}}
	svc := NewService(res, &stubBlocked{}, brokenCache{}, time.Minute)
	ctx := context.Background()

	snap, err := svc.Snapshot(ctx, "p1", d("2024-02-01"), d("2024-02-05"))
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, snap.StatusFor(d("2024-02-02")))

	svc.Invalidate(ctx, "p1")
}

func TestService_SourceErrorPropagates(t *testing.T) {
	res := &stubReservations{err: errors.New("db down")}
	svc := NewService(res, &stubBlocked{}, nil, time.Minute)

	_, err := svc.Snapshot(context.Background(), "p1", d("2024-02-01"), d("2024-02-05"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
