package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

func newTestService() (Service, *memoryRepo, *venue.Venue) {
	repo := newMemoryRepo()
	v := testVenue()
	venues := &fakeVenueService{venues: map[string]*venue.Venue{v.ID: v}}
	return NewService(repo, NewAvailabilityChecker(repo), venues), repo, v
}

func TestService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		actor   string
		wantErr error
	}{
		{name: "Owner confirms pending", from: StatusPending, to: StatusConfirmed, actor: "owner-1"},
		{name: "Owner cancels confirmed", from: StatusConfirmed, to: StatusCancelled, actor: "owner-1"},
		{name: "Booker cancels pending", from: StatusPending, to: StatusCancelled, actor: "user-1"},
		{name: "Booker cannot confirm", from: StatusPending, to: StatusConfirmed, actor: "user-1", wantErr: ErrPermissionDenied},
		{name: "Stranger cannot cancel", from: StatusPending, to: StatusCancelled, actor: "stranger", wantErr: ErrPermissionDenied},
		{name: "Cancelled is terminal", from: StatusCancelled, to: StatusConfirmed, actor: "owner-1", wantErr: ErrInvalidTransition},
		{name: "No way back to pending", from: StatusConfirmed, to: StatusPending, actor: "owner-1", wantErr: ErrInvalidTransition},
		{name: "Unknown status", from: StatusPending, to: "archived", actor: "owner-1", wantErr: ErrInvalidStatus},
		{name: "Same status is a no-op", from: StatusConfirmed, to: StatusConfirmed, actor: "owner-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, v := newTestService()
			r := repo.seed(&Reservation{
				VenueID: v.ID, UserID: "user-1", EventDate: date(2025, 6, 1),
				StartTime: "10:00", EndTime: "12:00", Status: tt.from,
			})

			got, err := svc.UpdateStatus(context.Background(), r.ID, tt.to, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				stored, _ := repo.GetByID(context.Background(), r.ID)
				assert.Equal(t, tt.from, stored.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
		})
	}
}

func TestService_UpdateStatusNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdateStatus(context.Background(), "missing", StatusCancelled, "owner-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_GetByIDAccess(t *testing.T) {
	svc, repo, v := newTestService()
	r := repo.seed(&Reservation{VenueID: v.ID, UserID: "user-1", Status: StatusPending})
	ctx := context.Background()

	_, err := svc.GetByID(ctx, r.ID, "user-1")
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, r.ID, "owner-1")
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, r.ID, "stranger")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestService_ListScopesToActor(t *testing.T) {
	svc, repo, v := newTestService()
	repo.seed(&Reservation{VenueID: v.ID, UserID: "user-1", Status: StatusPending})
	repo.seed(&Reservation{VenueID: v.ID, UserID: "user-2", Status: StatusPending})
	ctx := context.Background()

	mine, total, err := svc.List(ctx, Filter{}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "user-1", mine[0].UserID)

	_, total, err = svc.List(ctx, Filter{VenueID: v.ID}, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 2, total, "owner sees every booking of their venue")

	_, total, err = svc.List(ctx, Filter{VenueID: v.ID}, "user-2")
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, _, err = svc.List(ctx, Filter{VenueID: "missing"}, "owner-1")
	assert.ErrorIs(t, err, ErrVenueNotFound)

	_, _, err = svc.List(ctx, Filter{Status: "bogus"}, "owner-1")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_FreeSlots(t *testing.T) {
	svc, repo, v := newTestService()
	day := date(2025, 6, 1)
	repo.seed(&Reservation{VenueID: v.ID, EventDate: day, StartTime: "10:00", EndTime: "12:00", Status: StatusConfirmed})
	repo.seed(&Reservation{VenueID: v.ID, EventDate: day, StartTime: "14:00", EndTime: "15:00", Status: StatusCancelled})

	slots, err := svc.FreeSlots(context.Background(), v.ID, day)
	require.NoError(t, err)
	assert.Equal(t, []TimeSlot{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "12:00", EndTime: "22:00"},
	}, slots)

	_, err = svc.FreeSlots(context.Background(), "missing", day)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}
