package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/omniwatch/cinema-client/internal/domain"
)

type PaymentResult struct {
	Success       bool   `json:"success"`
	BookingID     int    `json:"booking_id"`
	TransactionID string `json:"transaction_id"`
	ErrMsg        string `json:"error"`
}

// CreateBooking submits the finalized seat selection. The backend prices
// the seats itself and answers with a PENDING booking whose total is
// authoritative.
func (c *Client) CreateBooking(ctx context.Context, showtimeID int, seatIDs []int) (*domain.Booking, error) {
	input := struct {
		ShowtimeID int   `json:"showtime_id"`
		SeatIDs    []int `json:"seat_ids"`
	}{ShowtimeID: showtimeID, SeatIDs: seatIDs}

	var booking domain.Booking

	err := c.do(ctx, http.MethodPost, "/bookings/bookings/", input, &booking)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// Bookings lists the current user's bookings, newest first. The endpoint
// answers a plain array or a paginated {"results": [...]} envelope depending
// on backend configuration, so both are accepted.
func (c *Client) Bookings(ctx context.Context) ([]domain.Booking, error) {
	var raw json.RawMessage

	err := c.do(ctx, http.MethodGet, "/bookings/bookings/", nil, &raw)
	if err != nil {
		return nil, err
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(raw, &bookings); err == nil {
		return bookings, nil
	}

	var page struct {
		Results []domain.Booking `json:"results"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, &domain.FetchError{Op: "GET /bookings/bookings/", Err: fmt.Errorf("decoding response: %w", err)}
	}

	return page.Results, nil
}

func (c *Client) BookingByID(ctx context.Context, id int) (*domain.Booking, error) {
	var booking domain.Booking

	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/bookings/bookings/%d/", id), nil, &booking)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (c *Client) CancelBooking(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/bookings/bookings/%d/cancel/", id), nil, nil)
}

// ProcessPayment charges the booking against a tokenized payment method.
// Declines come back as PaymentError carrying the provider-reported reason
// where the backend forwards one.
func (c *Client) ProcessPayment(ctx context.Context, bookingID int, paymentMethodID string) (*PaymentResult, error) {
	input := struct {
		PaymentMethodID string `json:"payment_method_id"`
	}{PaymentMethodID: paymentMethodID}

	var result PaymentResult

	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/bookings/bookings/%d/process_payment/", bookingID), input, &result)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return nil, &domain.PaymentError{Message: apiErr.Message}
		}

		return nil, err
	}

	if !result.Success {
		return nil, &domain.PaymentError{Message: result.ErrMsg}
	}

	return &result, nil
}
