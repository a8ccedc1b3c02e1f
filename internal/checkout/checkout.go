package checkout

import (
	"context"
	"log/slog"
	"time"

	"github.com/omniwatch/cinema-client/internal/api"
	"github.com/omniwatch/cinema-client/internal/domain"
	"github.com/omniwatch/cinema-client/internal/pricing"
)

// State tracks a single checkout attempt from seat selection to a paid
// booking.
type State int

const (
	StateSelectingSeats State = iota
	StateAwaitingBookingCreation
	StateAwaitingPayment
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSelectingSeats:
		return "selecting_seats"
	case StateAwaitingBookingCreation:
		return "awaiting_booking_creation"
	case StateAwaitingPayment:
		return "awaiting_payment"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BookingAPI is the slice of the gateway the orchestrator drives.
type BookingAPI interface {
	CreateBooking(ctx context.Context, showtimeID int, seatIDs []int) (*domain.Booking, error)
	ProcessPayment(ctx context.Context, bookingID int, paymentMethodID string) (*api.PaymentResult, error)
	CancelBooking(ctx context.Context, bookingID int) error
}

// Orchestrator sequences one checkout: booking creation, then payment,
// strictly in that order. The payment call is never issued before the
// booking-creation response has been observed.
type Orchestrator struct {
	api    BookingAPI
	logger *slog.Logger
	now    func() time.Time

	state   State
	booking *domain.Booking
	quote   pricing.Quote
	lastErr error
}

func NewOrchestrator(bookingAPI BookingAPI, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		api:    bookingAPI,
		logger: logger,
		now:    time.Now,
		state:  StateSelectingSeats,
	}
}

func (o *Orchestrator) State() State {
	return o.state
}

// Booking returns the created booking, nil until submission succeeds.
func (o *Orchestrator) Booking() *domain.Booking {
	return o.booking
}

// Quote is the authoritative price breakdown, valid once a booking exists.
func (o *Orchestrator) Quote() pricing.Quote {
	return o.quote
}

// Err returns the failure reason when the state is StateFailed.
func (o *Orchestrator) Err() error {
	return o.lastErr
}

// Submit sends the seat selection to the booking endpoint. It requires a
// non-empty selection and no previously created booking: once a booking
// exists, only payment may be retried, never the seat submission. On
// failure the selection is untouched and Submit may be called again.
func (o *Orchestrator) Submit(ctx context.Context, showtimeID int, seatIDs []int) (*domain.Booking, error) {
	if o.booking != nil {
		return nil, &domain.BusinessRuleError{Message: "booking already created, pay or cancel it instead"}
	}

	if len(seatIDs) == 0 {
		return nil, domain.ErrEmptySelection
	}

	o.state = StateAwaitingBookingCreation

	booking, err := o.api.CreateBooking(ctx, showtimeID, seatIDs)
	if err != nil {
		o.fail(err)
		return nil, err
	}

	o.booking = booking
	// the server priced the booking; its total overrides any client estimate
	o.quote = pricing.QuoteFromBooking(booking)
	o.state = StateAwaitingPayment

	o.logger.Info("booking created",
		"booking_id", booking.ID,
		"reference", booking.Reference,
		"total", o.quote.Total,
	)

	return booking, nil
}

// Resume attaches an existing pending booking, as when the user returns to
// checkout for a booking created earlier. Only unpaid bookings can be
// resumed.
func (o *Orchestrator) Resume(booking *domain.Booking) error {
	if o.booking != nil {
		return &domain.BusinessRuleError{Message: "a checkout is already in progress"}
	}

	if booking.Status != domain.BookingPending {
		return &domain.BusinessRuleError{Message: "booking is not awaiting payment"}
	}

	o.booking = booking
	o.quote = pricing.QuoteFromBooking(booking)
	o.state = StateAwaitingPayment

	return nil
}

// Pay charges the booking against a tokenized payment method. On success
// the booking is confirmed; on failure it stays PENDING and Pay may be
// called again with a fresh token.
func (o *Orchestrator) Pay(ctx context.Context, paymentMethodToken string) error {
	if o.booking == nil {
		return &domain.BusinessRuleError{Message: "no booking to pay for, submit a seat selection first"}
	}

	if o.booking.Status != domain.BookingPending {
		return &domain.BusinessRuleError{Message: "booking is not awaiting payment"}
	}

	o.state = StateAwaitingPayment

	result, err := o.api.ProcessPayment(ctx, o.booking.ID, paymentMethodToken)
	if err != nil {
		o.fail(err)
		return err
	}

	o.booking.Status = domain.BookingConfirmed
	o.state = StateConfirmed

	o.logger.Info("payment confirmed",
		"booking_id", o.booking.ID,
		"transaction_id", result.TransactionID,
	)

	return nil
}

// Cancel revokes a confirmed booking. The guard mirrors the backend rule:
// confirmed bookings only, and not within the cancellation cutoff of the
// showtime. A booking that fails the guard is rejected locally with no
// network call.
func (o *Orchestrator) Cancel(ctx context.Context, booking *domain.Booking) error {
	if !booking.Cancellable(o.now()) {
		return domain.ErrNotCancellable
	}

	if err := o.api.CancelBooking(ctx, booking.ID); err != nil {
		return err
	}

	booking.Status = domain.BookingCancelled
	o.logger.Info("booking cancelled", "booking_id", booking.ID)

	return nil
}

func (o *Orchestrator) fail(err error) {
	o.state = StateFailed
	o.lastErr = err
	o.logger.Warn("checkout step failed", "error", err)
}
