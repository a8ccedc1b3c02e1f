package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/omniwatch/cinema-client/internal/domain"
)

// ShowtimeFilter narrows the per-movie showtime listing. Zero values mean
// no filtering; the backend defaults the date to today.
type ShowtimeFilter struct {
	CinemaID int
	Date     string // YYYY-MM-DD
}

func (c *Client) Movies(ctx context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie

	err := c.do(ctx, http.MethodGet, "/movies/movies/", nil, &movies)
	if err != nil {
		return nil, err
	}

	return movies, nil
}

func (c *Client) MovieByID(ctx context.Context, id int) (*domain.Movie, error) {
	var movie domain.Movie

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/movies/movies/%d/", id), nil, &movie)
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

func (c *Client) MovieShowtimes(ctx context.Context, movieID int, filter ShowtimeFilter) ([]domain.ShowtimeSummary, error) {
	path := fmt.Sprintf("/movies/movies/%d/showtimes/", movieID)

	query := url.Values{}
	if filter.CinemaID > 0 {
		query.Set("cinema", fmt.Sprint(filter.CinemaID))
	}
	if filter.Date != "" {
		query.Set("date", filter.Date)
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var showtimes []domain.ShowtimeSummary

	err := c.do(ctx, http.MethodGet, path, nil, &showtimes)
	if err != nil {
		return nil, err
	}

	return showtimes, nil
}

func (c *Client) Cinemas(ctx context.Context) ([]domain.Cinema, error) {
	var cinemas []domain.Cinema

	err := c.do(ctx, http.MethodGet, "/movies/cinemas/", nil, &cinemas)
	if err != nil {
		return nil, err
	}

	return cinemas, nil
}

func (c *Client) ShowtimeByID(ctx context.Context, id int) (*domain.Showtime, error) {
	var showtime domain.Showtime

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/movies/showtimes/%d/", id), nil, &showtime)
	if err != nil {
		return nil, err
	}

	return &showtime, nil
}

// ShowtimeSeats fetches the seat layout snapshot for a showtime. Seats
// arrive pre-sorted by row and number.
func (c *Client) ShowtimeSeats(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	var seats []domain.Seat

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/movies/showtimes/%d/seats/", showtimeID), nil, &seats)
	if err != nil {
		return nil, err
	}

	return seats, nil
}
