package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Movie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Rating      string `json:"rating"`
	Genre       string `json:"genre"`
	ReleaseDate string `json:"release_date"`
	PosterURL   string `json:"poster_url"`
	BannerURL   string `json:"banner_url"`
	TrailerURL  string `json:"trailer_url"`
	Director    string `json:"director"`
	Cast        string `json:"cast"`
	Is3D        bool   `json:"is_3d"`
	IsIMAX      bool   `json:"is_imax"`
	IsFeatured  bool   `json:"is_featured"`
}

type Cinema struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

type Screen struct {
	ID         int    `json:"id"`
	Cinema     Cinema `json:"cinema"`
	Name       string `json:"name"`
	ScreenType string `json:"screen_type"`
	TotalSeats int    `json:"total_seats"`
}

// Showtime is a scheduled screening. BasePrice is the standard-tier ticket
// price; tier multipliers apply on top of it.
type Showtime struct {
	ID             int             `json:"id"`
	Movie          Movie           `json:"movie"`
	Screen         Screen          `json:"screen"`
	StartTime      time.Time       `json:"start_time"`
	EndTime        time.Time       `json:"end_time"`
	BasePrice      decimal.Decimal `json:"base_price"`
	Is3D           bool            `json:"is_3d"`
	AvailableSeats int             `json:"available_seats"`
}

// ShowtimeSummary is the lightweight shape returned by the per-movie
// showtime listing.
type ShowtimeSummary struct {
	ID             int             `json:"id"`
	MovieTitle     string          `json:"movie_title"`
	CinemaName     string          `json:"cinema_name"`
	CinemaLocation string          `json:"cinema_location"`
	ScreenName     string          `json:"screen_name"`
	StartTime      time.Time       `json:"start_time"`
	BasePrice      decimal.Decimal `json:"base_price"`
	Is3D           bool            `json:"is_3d"`
	AvailableSeats int             `json:"available_seats"`
}
