package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingRefunded  BookingStatus = "REFUNDED"
)

// CancellationCutoff is how long before the showtime starts a booking can
// still be cancelled. The backend rejects anything inside this window, so
// the client refuses locally instead of issuing a doomed call.
const CancellationCutoff = 2 * time.Hour

// Booking is a server-created reservation of seats for a showtime. The
// reference is the human-readable identifier printed on tickets; the backend
// assigns both it and the total.
type Booking struct {
	ID          int             `json:"id"`
	Reference   string          `json:"booking_reference"`
	Showtime    Showtime        `json:"showtime"`
	BookedSeats []BookedSeat    `json:"booked_seats"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	BookingFee  decimal.Decimal `json:"booking_fee"`
	Status      BookingStatus   `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UserEmail   string          `json:"user_email"`
}

type BookedSeat struct {
	ID    int             `json:"id"`
	Seat  Seat            `json:"seat"`
	Price decimal.Decimal `json:"price"`
}

// Cancellable reports whether the booking may still be cancelled at the
// given moment: confirmed bookings only, and not inside the cutoff window.
func (b *Booking) Cancellable(now time.Time) bool {
	if b.Status != BookingConfirmed {
		return false
	}

	return b.Showtime.StartTime.After(now.Add(CancellationCutoff))
}
