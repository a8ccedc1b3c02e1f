package pricing

import (
	"github.com/omniwatch/cinema-client/internal/domain"
	"github.com/shopspring/decimal"
)

// BookingFee is the fixed per-booking surcharge, charged once regardless of
// seat count.
var BookingFee = decimal.New(100, -2) // 1.00

var (
	multiplierVIP     = decimal.New(15, -1) // 1.5
	multiplierRecline = decimal.New(13, -1) // 1.3
)

// TierMultiplier maps a seat tier to its price multiplier. Tiers without an
// explicit multiplier price as standard.
func TierMultiplier(tier domain.SeatTier) decimal.Decimal {
	switch tier {
	case domain.TierVIP:
		return multiplierVIP
	case domain.TierRecline:
		return multiplierRecline
	default:
		return decimal.New(1, 0)
	}
}

// UnitPrice is the charge for one seat at the showtime's base price.
func UnitPrice(basePrice decimal.Decimal, tier domain.SeatTier) decimal.Decimal {
	return basePrice.Mul(TierMultiplier(tier))
}

// Subtotal sums the unit prices of a selection at the given base price.
func Subtotal(basePrice decimal.Decimal, seats []domain.Seat) decimal.Decimal {
	total := decimal.Zero

	for _, seat := range seats {
		total = total.Add(UnitPrice(basePrice, seat.Tier))
	}

	return total
}

// Quote is a derived price breakdown; it is never stored, only recomputed
// from the current selection or a server booking.
type Quote struct {
	Subtotal decimal.Decimal
	Fee      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// NewQuote prices a selection client-side: total = subtotal − discount + fee,
// floored at zero. The result is an estimate; once a booking exists the
// server total overrides it.
func NewQuote(basePrice decimal.Decimal, seats []domain.Seat, discount decimal.Decimal) Quote {
	subtotal := Subtotal(basePrice, seats)

	total := subtotal.Sub(discount).Add(BookingFee)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Quote{
		Subtotal: subtotal,
		Fee:      BookingFee,
		Discount: discount,
		Total:    total,
	}
}

// QuoteFromBooking rebuilds the breakdown from the server's authoritative
// figures: seat prices as booked, the fee as charged, total as invoiced.
func QuoteFromBooking(booking *domain.Booking) Quote {
	subtotal := decimal.Zero
	for _, bs := range booking.BookedSeats {
		subtotal = subtotal.Add(bs.Price)
	}

	discount := subtotal.Add(booking.BookingFee).Sub(booking.TotalAmount)
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return Quote{
		Subtotal: subtotal,
		Fee:      booking.BookingFee,
		Discount: discount,
		Total:    booking.TotalAmount,
	}
}
