package property

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/rental-booking-backend/internal/availability"
	"github.com/nekogravitycat/rental-booking-backend/internal/pkg/clock"
)

type fakeRepo struct {
	props    map[string]*Property
	upcoming map[string]bool
	listed   *Filter
	deleted  []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{props: map[string]*Property{}, upcoming: map[string]bool{}}
}

func (r *fakeRepo) Create(_ context.Context, p *Property) error {
	p.ID = "prop-" + p.Title
	cp := *p
	r.props[p.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Property, error) {
	p, ok := r.props[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) List(_ context.Context, f Filter) ([]*Property, int, error) {
	r.listed = &f
	return nil, 0, nil
}

func (r *fakeRepo) ListIDsByHost(_ context.Context, hostID string) ([]string, error) {
	var ids []string
	for id, p := range r.props {
		if p.HostID == hostID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeRepo) Update(_ context.Context, p *Property) error {
	cp := *p
	r.props[p.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	delete(r.props, id)
	return nil
}

func (r *fakeRepo) HasUpcomingBookings(_ context.Context, id string, _ time.Time) (bool, error) {
	return r.upcoming[id], nil
}

func newTestService(repo *fakeRepo) Service {
	return NewService(repo, clock.Fixed(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)))
}

func validCreate() CreateRequest {
	return CreateRequest{
		HostID:        "host-1",
		Title:         " Seaside Cottage ",
		City:          "Hualien",
		Country:       "TW",
		Capacity:      4,
		Bedrooms:      2,
		Bathrooms:     1,
		PricePerNight: 350000,
		CleaningFee:   50000,
	}
}

func TestCreate(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)
	assert.Equal(t, "Seaside Cottage", p.Title)
	assert.True(t, p.IsActive)
	assert.Equal(t, "host-1", p.HostID)

	tests := []struct {
		name   string
		mutate func(*CreateRequest)
		want   error
	}{
		{"Blank title", func(r *CreateRequest) { r.Title = "  " }, ErrTitleRequired},
		{"Zero capacity", func(r *CreateRequest) { r.Capacity = 0 }, ErrInvalidCapacity},
		{"Negative bedrooms", func(r *CreateRequest) { r.Bedrooms = -1 }, ErrInvalidRooms},
		{"Negative price", func(r *CreateRequest) { r.PricePerNight = -1 }, ErrInvalidPrice},
		{"Negative cleaning fee", func(r *CreateRequest) { r.CleaningFee = -1 }, ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdate_Permissions(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	title := "Renamed"
	_, err = svc.Update(ctx, p.ID, UpdateRequest{Title: &title}, "someone-else", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := svc.Update(ctx, p.ID, UpdateRequest{Title: &title}, "host-1", false)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	inactive := false
	updated, err = svc.Update(ctx, p.ID, UpdateRequest{IsActive: &inactive}, "admin", true)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	zero := 0
	_, err = svc.Update(ctx, p.ID, UpdateRequest{Capacity: &zero}, "host-1", false)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = svc.Update(ctx, "missing", UpdateRequest{Title: &title}, "host-1", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID, "intruder", false), ErrPermissionDenied)

	repo.upcoming[p.ID] = true
	assert.ErrorIs(t, svc.Delete(ctx, p.ID, "host-1", false), ErrHasBookings)
	assert.Empty(t, repo.deleted)

	repo.upcoming[p.ID] = false
	require.NoError(t, svc.Delete(ctx, p.ID, "host-1", false))
	assert.Equal(t, []string{p.ID}, repo.deleted)
}

func TestList_AvailabilityWindow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	from := availability.MustParseDate("2024-07-01")
	to := availability.MustParseDate("2024-07-05")

	_, _, err := svc.List(ctx, Filter{AvailableFrom: &from})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, _, err = svc.List(ctx, Filter{AvailableFrom: &to, AvailableTo: &from})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, _, err = svc.List(ctx, Filter{AvailableFrom: &from, AvailableTo: &from})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, _, err = svc.List(ctx, Filter{AvailableFrom: &from, AvailableTo: &to, City: "Hualien"})
	require.NoError(t, err)
	require.NotNil(t, repo.listed)
	assert.Equal(t, "Hualien", repo.listed.City)
}

func TestIsManagedBy(t *testing.T) {
	p := &Property{HostID: "host-1"}
	assert.True(t, p.IsManagedBy("host-1", false))
	assert.True(t, p.IsManagedBy("other", true))
	assert.False(t, p.IsManagedBy("other", false))
	assert.False(t, (&Property{}).IsManagedBy("", false))
}
