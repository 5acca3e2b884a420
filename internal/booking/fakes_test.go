package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/venue-booking-backend/internal/payment"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/timeofday"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

// memoryRepo is an in-memory Repository. Like the PostgreSQL table it
// refuses an insert that overlaps an active reservation of the same venue
// and date.
type memoryRepo struct {
	mu           sync.Mutex
	reservations map[string]*Reservation
	listErr      error
	createErr    error
	listCalls    int
	createCalls  int
	// enforceExclusion mirrors the table constraint.
	enforceExclusion bool
	// createHook runs after a successful insert.
	createHook func()
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{reservations: map[string]*Reservation{}, enforceExclusion: true}
}

func (m *memoryRepo) seed(r *Reservation) *Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	cp := *r
	m.reservations[r.ID] = &cp
	return r
}

func (m *memoryRepo) Create(ctx context.Context, r *Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if m.enforceExclusion {
		for _, existing := range m.reservations {
			if existing.VenueID == r.VenueID && existing.EventDate.Equal(r.EventDate) &&
				existing.Status.Active() &&
				timeofday.Overlaps(r.StartTime, r.EndTime, existing.StartTime, existing.EndTime) {
				return ErrSlotTaken
			}
		}
	}
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	cp := *r
	m.reservations[r.ID] = &cp
	if m.createHook != nil {
		m.createHook()
	}
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memoryRepo) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Reservation
	for _, r := range m.reservations {
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		if filter.VenueID != "" && r.VenueID != filter.VenueID {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *memoryRepo) ListActive(ctx context.Context, venueID string, date time.Time) ([]*Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*Reservation
	for _, r := range m.reservations {
		if r.VenueID == venueID && r.EventDate.Equal(date) && r.Status.Active() {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = time.Now()
	return nil
}

func (m *memoryRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reservations)
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeNotifier) NotifyNewBooking(ctx context.Context, reservationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, reservationID)
	return f.err
}

type invoiceCall struct {
	ReservationID string
	Amount        int64
}

type fakeInvoicer struct {
	mu    sync.Mutex
	calls []invoiceCall
	err   error
}

func (f *fakeInvoicer) CreateInvoice(ctx context.Context, reservationID string, amount int64, description string) (*payment.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, invoiceCall{ReservationID: reservationID, Amount: amount})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &payment.Invoice{
		ID:  "inv_" + reservationID,
		URL: fmt.Sprintf("https://pay.example.com/%s", reservationID),
	}, nil
}

// fakeVenueService serves venues from a map.
type fakeVenueService struct {
	venues map[string]*venue.Venue
}

func (f *fakeVenueService) Create(ctx context.Context, req venue.CreateRequest) (*venue.Venue, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeVenueService) GetByID(ctx context.Context, id string) (*venue.Venue, error) {
	v, ok := f.venues[id]
	if !ok {
		return nil, venue.ErrNotFound
	}
	return v, nil
}

func (f *fakeVenueService) List(ctx context.Context, filter venue.Filter) ([]*venue.Venue, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (f *fakeVenueService) Update(ctx context.Context, id string, req venue.UpdateRequest, actorID string) (*venue.Venue, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeVenueService) Delete(ctx context.Context, id string, actorID string) error {
	return errors.New("not implemented")
}

func int64Ptr(n int64) *int64 { return &n }

// testVenue is open 09:00-22:00, single rate 1000, capacity 50.
func testVenue() *venue.Venue {
	return &venue.Venue{
		ID:          "6f1c1c34-2a4e-4d8e-9d52-3f6a9a1b7c10",
		OwnerID:     "owner-1",
		Name:        "Garden Hall",
		OpenTime:    "09:00",
		CloseTime:   "22:00",
		PricingMode: venue.PricingSingle,
		Rate:        1000,
		CapacityMax: int64Ptr(50),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
