package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/venue-booking-backend/internal/auth"
	"github.com/nekogravitycat/venue-booking-backend/internal/notify"
	"github.com/nekogravitycat/venue-booking-backend/internal/payment"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/timeofday"
	"github.com/nekogravitycat/venue-booking-backend/internal/pricing"
	"github.com/nekogravitycat/venue-booking-backend/internal/slotlock"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

type OutcomeKind string

const (
	OutcomeRejected       OutcomeKind = "rejected"
	OutcomePartialSuccess OutcomeKind = "partial_success"
	OutcomeRedirect       OutcomeKind = "redirect"
)

// Outcome is the terminal state of one submission.
//   - Rejected: Err holds the reason; nothing was stored.
//   - PartialSuccess: the reservation exists as pending but has no invoice;
//     Err holds ErrInvoiceCreationFailed.
//   - Redirect: InvoiceURL is where the caller pays the deposit.
type Outcome struct {
	Kind          OutcomeKind
	Err           error
	ReservationID string
	InvoiceURL    string
}

// Reason is the user-facing message for a rejected or partial outcome.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	if msg, ok := apperror.UserMessage(o.Err); ok {
		return msg
	}
	return o.Err.Error()
}

// ErrorCode classifies an admission error for API clients.
func ErrorCode(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &vErr):
		return "validation_error"
	case errors.Is(err, ErrLoginRequired):
		return "login_required"
	case errors.Is(err, ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, ErrAvailabilityCheckFailed):
		return "availability_check_failed"
	case errors.Is(err, ErrPersistenceFailed):
		return "persistence_failed"
	case errors.Is(err, ErrInvoiceCreationFailed):
		return "invoice_creation_failed"
	default:
		return "internal_error"
	}
}

func rejected(err error) Outcome {
	return Outcome{Kind: OutcomeRejected, Err: err}
}

// reservationCreator inserts a pending reservation, returning ErrSlotTaken
// when the store itself detects an overlap.
type reservationCreator interface {
	Create(ctx context.Context, r *Reservation) error
}

// Admission runs the booking pipeline: validate, check availability,
// insert, notify the owner, invoice the deposit.
type Admission struct {
	checker  *AvailabilityChecker
	repo     reservationCreator
	locker   slotlock.Locker
	notifier notify.Notifier
	invoicer payment.Invoicer
	logger   *zap.Logger
	now      func() time.Time
}

func NewAdmission(
	checker *AvailabilityChecker,
	repo reservationCreator,
	locker slotlock.Locker,
	notifier notify.Notifier,
	invoicer payment.Invoicer,
	logger *zap.Logger,
) *Admission {
	return &Admission{
		checker:  checker,
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		invoicer: invoicer,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit admits d for venue v on behalf of session. Steps run in order and
// stop at the first rejection; nothing remote is called for a draft that
// fails local validation.
func (a *Admission) Submit(ctx context.Context, session *auth.Session, d *Draft, v *venue.Venue) Outcome {
	// 1. Identity
	if session == nil || session.UserID == "" {
		return rejected(ErrLoginRequired)
	}

	// 2. Field validation, first violation wins
	if err := ValidateDraft(d, v, a.now()); err != nil {
		return rejected(err)
	}

	// 3-4. Availability check and insert
	res, err := a.admit(ctx, session, d, v)
	if err != nil {
		return rejected(err)
	}

	log := a.logger.With(
		zap.String("reservation_id", res.ID),
		zap.String("venue_id", v.ID),
		zap.String("event_date", timeofday.FormatDate(res.EventDate)),
	)
	log.Info("reservation admitted",
		zap.String("start_time", res.StartTime),
		zap.String("end_time", res.EndTime),
	)

	// The reservation is committed; the caller going away must not stop
	// the owner alert or the invoice.
	ctx = context.WithoutCancel(ctx)

	// 5. Owner notification, best effort
	if err := a.notifier.NotifyNewBooking(ctx, res.ID); err != nil {
		log.Warn("owner notification failed", zap.Error(fmt.Errorf("%w: %w", ErrNotificationFailed, err)))
	}

	// 6. Deposit invoice
	quote := pricing.Quote(v, res.EventDate)
	invoice, err := a.invoicer.CreateInvoice(ctx, res.ID, quote.DepositAmount, invoiceDescription(res, v))
	if err != nil {
		log.Error("invoice creation failed, reservation left pending", zap.Int64("deposit", quote.DepositAmount), zap.Error(err))
		return Outcome{
			Kind:          OutcomePartialSuccess,
			Err:           fmt.Errorf("%w: %w", ErrInvoiceCreationFailed, err),
			ReservationID: res.ID,
		}
	}

	// 7. Redirect to payment
	return Outcome{
		Kind:          OutcomeRedirect,
		ReservationID: res.ID,
		InvoiceURL:    invoice.URL,
	}
}

// admit runs the availability check and the insert under the venue/date
// slot lock, so two submissions for the same day cannot both pass the
// check before either inserts.
func (a *Admission) admit(ctx context.Context, session *auth.Session, d *Draft, v *venue.Venue) (*Reservation, error) {
	release, err := a.locker.Acquire(ctx, slotlock.VenueDateKey(v.ID, timeofday.FormatDate(d.EventDate)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAvailabilityCheckFailed, err)
	}
	defer release()

	conflict, err := a.checker.HasConflict(ctx, v.ID, d.EventDate, d.StartTime, d.EndTime)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrSlotUnavailable
	}

	// Validation already proved the count is a positive integer.
	guests, _ := strconv.Atoi(strings.TrimSpace(d.GuestCount))

	res := &Reservation{
		VenueID:    v.ID,
		UserID:     session.UserID,
		EventName:  d.EventName,
		EventType:  d.EventType,
		EventDate:  d.EventDate,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		GuestCount: guests,
		Status:     StatusPending,
	}
	if err := a.repo.Create(ctx, res); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	return res, nil
}

func invoiceDescription(r *Reservation, v *venue.Venue) string {
	return fmt.Sprintf("Deposit for %s at %s on %s, %s-%s",
		r.EventName, v.Name, timeofday.FormatDate(r.EventDate), r.StartTime, r.EndTime)
}
