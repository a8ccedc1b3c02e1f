package domain

import "strconv"

// SeatTier categorizes a seat for pricing. Tiers without an explicit
// multiplier (wheelchair, companion and anything the backend adds later)
// price as standard.
type SeatTier string

const (
	TierStandard   SeatTier = "STANDARD"
	TierVIP        SeatTier = "VIP"
	TierRecline    SeatTier = "RECLINE"
	TierWheelchair SeatTier = "WHEELCHAIR"
	TierCompanion  SeatTier = "COMPANION"
)

// Seat is one seat of a showtime's layout snapshot. Availability is
// server-reported and only meaningful for the snapshot it arrived with.
type Seat struct {
	ID        int      `json:"id"`
	Row       string   `json:"row"`
	Number    int      `json:"number"`
	Tier      SeatTier `json:"seat_type"`
	Available bool     `json:"is_available"`
}

// Label renders the display name of a seat, e.g. "D7".
func (s Seat) Label() string {
	return s.Row + strconv.Itoa(s.Number)
}
