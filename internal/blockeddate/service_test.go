package blockeddate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/rental-booking-backend/internal/property"
)

type memRepo struct {
	days map[string]map[availability.Date]*string
}

func newMemRepo() *memRepo { return &memRepo{days: map[string]map[availability.Date]*string{}} }

func (r *memRepo) Insert(_ context.Context, propertyID string, days []availability.Date, reason *string) (int, error) {
	if r.days[propertyID] == nil {
		r.days[propertyID] = map[availability.Date]*string{}
	}
	n := 0
	for _, d := range days {
		if _, ok := r.days[propertyID][d]; ok {
			continue
		}
		r.days[propertyID][d] = reason
		n++
	}
	return n, nil
}

func (r *memRepo) DeleteRange(_ context.Context, propertyID string, from, to availability.Date) (int, error) {
	n := 0
	for d := range r.days[propertyID] {
		if !d.Before(from) && d.Before(to) {
			delete(r.days[propertyID], d)
			n++
		}
	}
	return n, nil
}

func (r *memRepo) List(_ context.Context, propertyID string, from, to availability.Date) ([]*BlockedDate, error) {
	var out []*BlockedDate
	for d, reason := range r.days[propertyID] {
		if !d.Before(from) && d.Before(to) {
			out = append(out, &BlockedDate{PropertyID: propertyID, Date: d, Reason: reason})
		}
	}
	return out, nil
}

func (r *memRepo) BlockedDays(ctx context.Context, propertyID string, from, to availability.Date) ([]availability.Date, error) {
	list, _ := r.List(ctx, propertyID, from, to)
	out := make([]availability.Date, len(list))
	for i, bd := range list {
		out[i] = bd.Date
	}
	return out, nil
}

type fakeAuthorizer map[string]*property.Property

func (f fakeAuthorizer) Authorize(_ context.Context, id, actorID string, isSysAdmin bool) (*property.Property, error) {
	p, ok := f[id]
	if !ok {
		return nil, property.ErrNotFound
	}
	if !p.IsManagedBy(actorID, isSysAdmin) {
		return nil, property.ErrPermissionDenied
	}
	return p, nil
}

type countingAvailability struct {
	availability.Service
	invalidations int
}

func (c *countingAvailability) Invalidate(context.Context, string) { c.invalidations++ }

func day(s string) availability.Date { return availability.MustParseDate(s) }

func newTestService() (Service, *memRepo, *countingAvailability) {
	repo := newMemRepo()
	avail := &countingAvailability{}
	props := fakeAuthorizer{"villa": {ID: "villa", HostID: "host"}}
	clk := clock.Fixed(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	return NewService(repo, props, avail, clk), repo, avail
}

func TestBlock(t *testing.T) {
	svc, repo, avail := newTestService()
	ctx := context.Background()
	reason := "  maintenance "

	n, err := svc.Block(ctx, BlockRequest{PropertyID: "villa", From: day("2024-05-10"), To: day("2024-05-13"), Reason: &reason}, "host", false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, avail.invalidations)
	require.NotNil(t, repo.days["villa"][day("2024-05-10")])
	assert.Equal(t, "maintenance", *repo.days["villa"][day("2024-05-10")])
	_, endBlocked := repo.days["villa"][day("2024-05-13")]
	assert.False(t, endBlocked, "the end of the range is exclusive")

	// Overlapping request only adds the new days.
	n, err = svc.Block(ctx, BlockRequest{PropertyID: "villa", From: day("2024-05-12"), To: day("2024-05-15")}, "host", false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Fully idempotent repeat changes nothing and keeps the cache.
	n, err = svc.Block(ctx, BlockRequest{PropertyID: "villa", From: day("2024-05-10"), To: day("2024-05-15")}, "host", false)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, avail.invalidations)
}

func TestBlock_Validation(t *testing.T) {
	long := strings.Repeat("x", maxReasonLength+1)

	tests := []struct {
		name  string
		req   BlockRequest
		actor string
		admin bool
		want  error
	}{
		{"Stranger", BlockRequest{PropertyID: "villa", From: day("2024-05-10"), To: day("2024-05-11")}, "guest", false, property.ErrPermissionDenied},
		{"Unknown property", BlockRequest{PropertyID: "nope", From: day("2024-05-10"), To: day("2024-05-11")}, "host", false, property.ErrNotFound},
		{"Past day", BlockRequest{PropertyID: "villa", From: day("2024-04-30"), To: day("2024-05-02")}, "host", false, ErrPastDate},
		{"Zero length", BlockRequest{PropertyID: "villa", From: day("2024-05-10"), To: day("2024-05-10")}, "host", false, ErrZeroLength},
		{"Too long", BlockRequest{PropertyID: "villa", From: day("2024-05-10"), To: day("2025-05-11")}, "host", false, ErrRangeTooLong},
		{"Reason too long", BlockRequest{PropertyID: "villa", From: day("2024-05-10"), To: day("2024-05-11"), Reason: &long}, "host", false, ErrReasonTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			_, err := svc.Block(context.Background(), tt.req, tt.actor, tt.admin)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, repo.days["villa"])
		})
	}
}

func TestBlock_AdminMayManageAnyProperty(t *testing.T) {
	svc, _, _ := newTestService()
	n, err := svc.Block(context.Background(), BlockRequest{PropertyID: "villa", From: day("2024-05-01"), To: day("2024-05-02")}, "admin", true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUnblockAndList(t *testing.T) {
	svc, _, avail := newTestService()
	ctx := context.Background()

	_, err := svc.Block(ctx, BlockRequest{PropertyID: "villa", From: day("2024-06-01"), To: day("2024-06-08")}, "host", false)
	require.NoError(t, err)

	n, err := svc.Unblock(ctx, "villa", day("2024-06-03"), day("2024-06-05"), "host", false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, avail.invalidations)

	list, err := svc.List(ctx, "villa", day("2024-06-01"), day("2024-07-01"), "host", false)
	require.NoError(t, err)
	assert.Len(t, list, 5)

	_, err = svc.List(ctx, "villa", day("2024-07-01"), day("2024-06-01"), "host", false)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.Unblock(ctx, "villa", day("2024-06-05"), day("2024-06-03"), "host", false)
	assert.ErrorIs(t, err, ErrZeroLength)

	_, err = svc.List(ctx, "villa", day("2024-06-01"), day("2024-07-01"), "guest", false)
	assert.ErrorIs(t, err, property.ErrPermissionDenied)
}
