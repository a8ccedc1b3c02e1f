package view

import (
	"time"

	"github.com/omniwatch/cinema-client/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "Monday, January 2, 2006"
	timeLayout = "3:04 PM"
)

// Ticket is the display projection of a confirmed booking: everything the
// e-ticket shows, pre-formatted.
type Ticket struct {
	Reference  string
	MovieTitle string
	Rating     string
	CinemaName string
	ScreenName string
	Date       string
	Time       string
	SeatLabels []string
	Total      string
}

func NewTicket(booking *domain.Booking) Ticket {
	return Ticket{
		Reference:  booking.Reference,
		MovieTitle: booking.Showtime.Movie.Title,
		Rating:     booking.Showtime.Movie.Rating,
		CinemaName: booking.Showtime.Screen.Cinema.Name,
		ScreenName: booking.Showtime.Screen.Name,
		Date:       booking.Showtime.StartTime.Format(dateLayout),
		Time:       booking.Showtime.StartTime.Format(timeLayout),
		SeatLabels: SeatLabels(booking),
		Total:      FormatAmount(booking.TotalAmount),
	}
}

// SeatLabels lists the booked seats as {row}{number}, in booked order.
func SeatLabels(booking *domain.Booking) []string {
	labels := make([]string, len(booking.BookedSeats))
	for i, bs := range booking.BookedSeats {
		labels[i] = bs.Seat.Label()
	}

	return labels
}

// FormatAmount renders a monetary value for display, two decimal places.
func FormatAmount(amount decimal.Decimal) string {
	return "€" + amount.StringFixed(2)
}

// Bucket is the temporal classification of a booking relative to now. It is
// recomputed at render time, never stored.
type Bucket int

const (
	BucketUpcoming Bucket = iota
	BucketPast
)

func Classify(booking *domain.Booking, now time.Time) Bucket {
	if booking.Showtime.StartTime.After(now) {
		return BucketUpcoming
	}

	return BucketPast
}
