package view

import (
	"context"
	"time"

	"github.com/omniwatch/cinema-client/internal/domain"
	"github.com/shopspring/decimal"
)

// DashboardStats summarizes a user's booking history for the dashboard
// header. Upcoming counts confirmed future bookings; spend counts confirmed
// bookings only, cancellations included in the total count but not the sum.
type DashboardStats struct {
	TotalBookings    int
	UpcomingBookings int
	PastBookings     int
	TotalSpent       decimal.Decimal
}

func NewDashboardStats(bookings []domain.Booking, now time.Time) DashboardStats {
	stats := DashboardStats{
		TotalBookings: len(bookings),
		TotalSpent:    decimal.Zero,
	}

	for i := range bookings {
		b := &bookings[i]

		switch Classify(b, now) {
		case BucketUpcoming:
			if b.Status == domain.BookingConfirmed {
				stats.UpcomingBookings++
			}
		case BucketPast:
			stats.PastBookings++
		}

		if b.Status == domain.BookingConfirmed {
			stats.TotalSpent = stats.TotalSpent.Add(b.TotalAmount)
		}
	}

	return stats
}

// FilterByBucket returns the bookings in the given bucket; upcoming is
// restricted to confirmed bookings, matching the dashboard tabs.
func FilterByBucket(bookings []domain.Booking, bucket Bucket, now time.Time) []domain.Booking {
	var out []domain.Booking

	for i := range bookings {
		b := &bookings[i]

		if Classify(b, now) != bucket {
			continue
		}

		if bucket == BucketUpcoming && b.Status != domain.BookingConfirmed {
			continue
		}

		out = append(out, *b)
	}

	return out
}

// MovieAPI is the slice of the gateway the recommendation strip uses.
type MovieAPI interface {
	Movies(ctx context.Context) ([]domain.Movie, error)
}

// Recommendations fetches up to n currently showing movies. The strip is
// decorative, so a failed fetch degrades to an empty list instead of
// blocking the page.
func Recommendations(ctx context.Context, movieAPI MovieAPI, n int) []domain.Movie {
	movies, err := movieAPI.Movies(ctx)
	if err != nil {
		return nil
	}

	if len(movies) > n {
		movies = movies[:n]
	}

	return movies
}
