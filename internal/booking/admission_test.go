package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/venue-booking-backend/internal/auth"
	"github.com/nekogravitycat/venue-booking-backend/internal/slotlock"
)

type failingLocker struct{ err error }

func (l failingLocker) Acquire(ctx context.Context, key string) (func(), error) {
	return nil, l.err
}

type admissionFixture struct {
	repo      *memoryRepo
	notifier  *fakeNotifier
	invoicer  *fakeInvoicer
	admission *Admission
}

func newAdmissionFixture() *admissionFixture {
	f := &admissionFixture{
		repo:     newMemoryRepo(),
		notifier: &fakeNotifier{},
		invoicer: &fakeInvoicer{},
	}
	f.admission = NewAdmission(
		NewAvailabilityChecker(f.repo),
		f.repo,
		slotlock.NewMemoryLocker(2*time.Second),
		f.notifier,
		f.invoicer,
		zap.NewNop(),
	)
	f.admission.now = func() time.Time { return time.Date(2025, 5, 20, 15, 0, 0, 0, time.UTC) }
	return f
}

var booker = &auth.Session{UserID: "user-1", Email: "ana@example.com"}

func submission(start, end string) *Draft {
	d := NewDraft(testVenue())
	d.SetEventName("Ana's 30th")
	d.SetEventType(EventBirthday)
	d.SetEventDate(date(2025, 6, 1))
	d.SetStartTime(start)
	d.SetEndTime(end)
	d.GuestCount = "30"
	return d
}

func TestSubmit_Redirect(t *testing.T) {
	f := newAdmissionFixture()
	d := submission("14:00", "15:00")

	out := f.admission.Submit(context.Background(), booker, d, d.Venue())

	require.Equal(t, OutcomeRedirect, out.Kind, "err: %v", out.Err)
	assert.NoError(t, out.Err)
	assert.NotEmpty(t, out.ReservationID)
	assert.Equal(t, "https://pay.example.com/"+out.ReservationID, out.InvoiceURL)

	stored, err := f.repo.GetByID(context.Background(), out.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, 30, stored.GuestCount)

	assert.Equal(t, []string{out.ReservationID}, f.notifier.calls)
	require.Len(t, f.invoicer.calls, 1)
	assert.Equal(t, int64(100), f.invoicer.calls[0].Amount, "10% deposit of 1000")
}

func TestSubmit_LoginRequired(t *testing.T) {
	f := newAdmissionFixture()
	d := submission("14:00", "15:00")

	for _, s := range []*auth.Session{nil, {}} {
		out := f.admission.Submit(context.Background(), s, d, d.Venue())
		assert.Equal(t, OutcomeRejected, out.Kind)
		assert.ErrorIs(t, out.Err, ErrLoginRequired)
		assert.Equal(t, "login_required", ErrorCode(out.Err))
	}
	assert.Zero(t, f.repo.listCalls)
}

func TestSubmit_InvalidGuestCountMakesNoRemoteCalls(t *testing.T) {
	for _, raw := range []string{"abc", "0"} {
		t.Run(raw, func(t *testing.T) {
			f := newAdmissionFixture()
			d := submission("14:00", "15:00")
			d.GuestCount = raw

			out := f.admission.Submit(context.Background(), booker, d, d.Venue())

			assert.Equal(t, OutcomeRejected, out.Kind)
			var vErr *ValidationError
			require.True(t, errors.As(out.Err, &vErr))
			assert.Equal(t, "guest_count", vErr.Field)
			assert.Equal(t, "validation_error", ErrorCode(out.Err))

			assert.Zero(t, f.repo.listCalls)
			assert.Zero(t, f.repo.createCalls)
			assert.Empty(t, f.notifier.calls)
			assert.Empty(t, f.invoicer.calls)
		})
	}
}

func TestSubmit_SlotUnavailable(t *testing.T) {
	f := newAdmissionFixture()
	v := testVenue()
	day := date(2025, 6, 1)
	f.repo.seed(&Reservation{VenueID: v.ID, EventDate: day, StartTime: "10:00", EndTime: "12:00", Status: StatusConfirmed})
	f.repo.seed(&Reservation{VenueID: v.ID, EventDate: day, StartTime: "14:00", EndTime: "15:00", Status: StatusCancelled})

	d := submission("11:00", "13:00")
	out := f.admission.Submit(context.Background(), booker, d, d.Venue())
	assert.Equal(t, OutcomeRejected, out.Kind)
	assert.ErrorIs(t, out.Err, ErrSlotUnavailable)
	assert.Equal(t, "The selected time slot is already booked, please choose another time", out.Reason())
	assert.Zero(t, f.repo.createCalls)

	d = submission("14:00", "15:00")
	out = f.admission.Submit(context.Background(), booker, d, d.Venue())
	assert.Equal(t, OutcomeRedirect, out.Kind)
}

func TestSubmit_AvailabilityCheckFailed(t *testing.T) {
	f := newAdmissionFixture()
	f.repo.listErr = errors.New("timeout")
	d := submission("14:00", "15:00")

	out := f.admission.Submit(context.Background(), booker, d, d.Venue())

	assert.Equal(t, OutcomeRejected, out.Kind)
	assert.ErrorIs(t, out.Err, ErrAvailabilityCheckFailed)
	assert.Equal(t, "Something went wrong, please try again later", out.Reason())
	assert.Zero(t, f.repo.createCalls)
}

func TestSubmit_LockFailureFailsClosed(t *testing.T) {
	f := newAdmissionFixture()
	f.admission.locker = failingLocker{err: slotlock.ErrLockTimeout}
	d := submission("14:00", "15:00")

	out := f.admission.Submit(context.Background(), booker, d, d.Venue())

	assert.Equal(t, OutcomeRejected, out.Kind)
	assert.ErrorIs(t, out.Err, ErrAvailabilityCheckFailed)
	assert.ErrorIs(t, out.Err, slotlock.ErrLockTimeout)
	assert.Zero(t, f.repo.listCalls)
}

func TestSubmit_StoreExclusionMapsToSlotUnavailable(t *testing.T) {
	f := newAdmissionFixture()
	f.repo.createErr = ErrSlotTaken
	d := submission("14:00", "15:00")

	out := f.admission.Submit(context.Background(), booker, d, d.Venue())

	assert.Equal(t, OutcomeRejected, out.Kind)
	assert.ErrorIs(t, out.Err, ErrSlotUnavailable)
	assert.Empty(t, f.invoicer.calls)
}

func TestSubmit_PersistenceFailed(t *testing.T) {
	f := newAdmissionFixture()
	f.repo.createErr = errors.New("disk full")
	d := submission("14:00", "15:00")

	out := f.admission.Submit(context.Background(), booker, d, d.Venue())

	assert.Equal(t, OutcomeRejected, out.Kind)
	assert.ErrorIs(t, out.Err, ErrPersistenceFailed)
	assert.Equal(t, "persistence_failed", ErrorCode(out.Err))
	assert.Empty(t, f.notifier.calls)
}

func TestSubmit_NotificationFailureStillRedirects(t *testing.T) {
	f := newAdmissionFixture()
	f.notifier.err = errors.New("broker down")
	d := submission("14:00", "15:00")

	out := f.admission.Submit(context.Background(), booker, d, d.Venue())

	assert.Equal(t, OutcomeRedirect, out.Kind)
	assert.NoError(t, out.Err)
	assert.Len(t, f.invoicer.calls, 1)
}

func TestSubmit_InvoiceFailureIsPartialSuccess(t *testing.T) {
	f := newAdmissionFixture()
	f.invoicer.err = errors.New("stripe unavailable")
	d := submission("14:00", "15:00")

	out := f.admission.Submit(context.Background(), booker, d, d.Venue())

	require.Equal(t, OutcomePartialSuccess, out.Kind)
	assert.ErrorIs(t, out.Err, ErrInvoiceCreationFailed)
	assert.Equal(t, "invoice_creation_failed", ErrorCode(out.Err))
	assert.Empty(t, out.InvoiceURL)

	stored, err := f.repo.GetByID(context.Background(), out.ReservationID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestSubmit_SideEffectsSurviveCallerCancel(t *testing.T) {
	f := newAdmissionFixture()
	d := submission("14:00", "15:00")

	ctx, cancel := context.WithCancel(context.Background())
	f.repo.createHook = cancel

	out := f.admission.Submit(ctx, booker, d, d.Venue())

	assert.Equal(t, OutcomeRedirect, out.Kind)
	assert.Len(t, f.notifier.calls, 1)
	assert.Len(t, f.invoicer.calls, 1)
}

func TestSubmit_ConcurrentOverlappingSubmissions(t *testing.T) {
	f := newAdmissionFixture()
	// Only the slot lock stands between the check and the insert.
	f.repo.enforceExclusion = false

	const n = 10
	outcomes := make([]Outcome, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := submission("14:00", "16:00")
			outcomes[i] = f.admission.Submit(context.Background(), booker, d, d.Venue())
		}(i)
	}
	wg.Wait()

	var admitted, rejectedCount int
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeRedirect:
			admitted++
		case OutcomeRejected:
			assert.ErrorIs(t, o.Err, ErrSlotUnavailable)
			rejectedCount++
		}
	}
	assert.Equal(t, 1, admitted)
	assert.Equal(t, n-1, rejectedCount)
	assert.Equal(t, 1, f.repo.count())
}
