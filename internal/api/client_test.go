package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/omniwatch/cinema-client/internal/domain"
	"github.com/stretchr/testify/suite"
)

// fakeTokens is an in-memory TokenSource for exercising the refresh path.
type fakeTokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	cleared bool
}

func (f *fakeTokens) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.access
}

func (f *fakeTokens) RefreshToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.refresh
}

func (f *fakeTokens) SetAccessToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.access = token
}

func (f *fakeTokens) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.access = ""
	f.refresh = ""
	f.cleared = true
}

type ClientTestSuite struct {
	suite.Suite
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) newTestClient(router chi.Router, tokens *fakeTokens, opts ...Option) *Client {
	server := httptest.NewServer(router)
	s.T().Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewClient(server.URL, tokens, logger, opts...)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *ClientTestSuite) TestExpiredTokenIsRefreshedAndRequestReplayed() {
	tokens := &fakeTokens{access: "stale", refresh: "valid-refresh"}

	var profileHits, refreshHits int

	router := chi.NewRouter()
	router.Get("/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		profileHits++

		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "username": "amara", "email": "amara@example.com"})
	})
	router.Post("/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshHits++

		var input struct {
			Refresh string `json:"refresh"`
		}
		_ = json.NewDecoder(r.Body).Decode(&input)

		if input.Refresh != "valid-refresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token invalid"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"access": "fresh"})
	})

	client := s.newTestClient(router, tokens)

	user, err := client.Profile(context.Background())

	s.Require().NoError(err)
	s.Equal("amara", user.Username)
	s.Equal("fresh", tokens.AccessToken())
	s.Equal(2, profileHits, "original request plus exactly one replay")
	s.Equal(1, refreshHits)
	s.False(tokens.cleared)
}

func (s *ClientTestSuite) TestRejectedRefreshClearsSessionWithoutLooping() {
	tokens := &fakeTokens{access: "stale", refresh: "revoked"}

	var profileHits, refreshHits, hookCalls int

	router := chi.NewRouter()
	router.Get("/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		profileHits++
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
	})
	router.Post("/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshHits++
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token is blacklisted"})
	})

	client := s.newTestClient(router, tokens, WithSessionExpiredHook(func() {
		hookCalls++
	}))

	_, err := client.Profile(context.Background())

	var authErr *domain.AuthError
	s.Require().ErrorAs(err, &authErr)
	s.Equal("token expired", authErr.Reason, "original failure is surfaced, not the refresh failure")

	s.Equal(1, profileHits, "no replay after a failed refresh")
	s.Equal(1, refreshHits)
	s.Equal(1, hookCalls)
	s.True(tokens.cleared)
	s.Empty(tokens.AccessToken())
	s.Empty(tokens.RefreshToken())
}

func (s *ClientTestSuite) TestMissingRefreshTokenSkipsRefresh() {
	tokens := &fakeTokens{access: "stale"}

	var refreshHits int

	router := chi.NewRouter()
	router.Get("/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token expired"})
	})
	router.Post("/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshHits++
		writeJSON(w, http.StatusOK, map[string]string{"access": "fresh"})
	})

	client := s.newTestClient(router, tokens)

	_, err := client.Profile(context.Background())

	var authErr *domain.AuthError
	s.Require().ErrorAs(err, &authErr)
	s.Zero(refreshHits)
	s.False(tokens.cleared, "an absent refresh token is not a session teardown")
}

func (s *ClientTestSuite) TestForbiddenResponseDoesNotTriggerRefresh() {
	tokens := &fakeTokens{access: "valid", refresh: "valid-refresh"}

	var refreshHits int

	router := chi.NewRouter()
	router.Get("/users/profile/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You do not have permission to perform this action."})
	})
	router.Post("/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshHits++
		writeJSON(w, http.StatusOK, map[string]string{"access": "fresh"})
	})

	client := s.newTestClient(router, tokens)

	_, err := client.Profile(context.Background())

	var apiErr *Error
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusForbidden, apiErr.StatusCode)
	s.Zero(refreshHits, "a forbidden action is not an expired session")
	s.Equal("valid", tokens.AccessToken())
	s.False(tokens.cleared)
}

func (s *ClientTestSuite) TestLoginFailureDoesNotTouchStoredSession() {
	tokens := &fakeTokens{access: "current", refresh: "current-refresh"}

	var refreshHits int

	router := chi.NewRouter()
	router.Post("/token/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
	})
	router.Post("/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshHits++
		writeJSON(w, http.StatusOK, map[string]string{"access": "fresh"})
	})

	client := s.newTestClient(router, tokens)

	_, err := client.Login(context.Background(), "amara", "wrong-password")

	var authErr *domain.AuthError
	s.Require().ErrorAs(err, &authErr)
	s.Zero(refreshHits, "bad credentials must not trigger a token refresh")
	s.Equal("current", tokens.AccessToken())
	s.Equal("current-refresh", tokens.RefreshToken())
	s.False(tokens.cleared)
}

func (s *ClientTestSuite) TestErrorDecoding() {
	tests := []struct {
		name     string
		status   int
		body     any
		checkErr func(err error)
	}{
		{
			name:   "should map 404 to record not found",
			status: http.StatusNotFound,
			body:   map[string]string{"detail": "Not found."},
			checkErr: func(err error) {
				s.ErrorIs(err, domain.ErrRecordNotFound)
			},
		},
		{
			name:   "should map field errors to a validation error sorted by field",
			status: http.StatusBadRequest,
			body: map[string][]string{
				"username": {"A user with that username already exists."},
				"email":    {"Enter a valid email address."},
			},
			checkErr: func(err error) {
				var validationErr *domain.ValidationError
				s.Require().ErrorAs(err, &validationErr)

				want := []domain.FieldError{
					{Field: "email", Issue: "Enter a valid email address."},
					{Field: "username", Issue: "A user with that username already exists."},
				}

				diff := cmp.Diff(want, validationErr.Fields)
				s.Empty(diff, "Field errors mismatch (-want +got):\n%s", diff)
			},
		},
		{
			name:   "should map business rejections to a plain error with the message",
			status: http.StatusBadRequest,
			body:   map[string]string{"error": "Seat A1 is already booked"},
			checkErr: func(err error) {
				var apiErr *Error
				s.Require().ErrorAs(err, &apiErr)
				s.Equal("Seat A1 is already booked", apiErr.Message)
			},
		},
		{
			name:   "should map server errors to a fetch error",
			status: http.StatusInternalServerError,
			body:   map[string]string{"detail": "internal error"},
			checkErr: func(err error) {
				var fetchErr *domain.FetchError
				s.ErrorAs(err, &fetchErr)
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			router := chi.NewRouter()
			router.Get("/movies/movies/", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			client := s.newTestClient(router, &fakeTokens{access: "token"})

			_, err := client.Movies(context.Background())

			s.Require().Error(err)
			tt.checkErr(err)
		})
	}
}

func (s *ClientTestSuite) TestBookingsAcceptsArrayAndPaginatedEnvelope() {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "should decode a plain array",
			body: `[{"id": 1, "booking_reference": "BK0001"}, {"id": 2, "booking_reference": "BK0002"}]`,
		},
		{
			name: "should decode a paginated envelope",
			body: `{"count": 2, "results": [{"id": 1, "booking_reference": "BK0001"}, {"id": 2, "booking_reference": "BK0002"}]}`,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			router := chi.NewRouter()
			router.Get("/bookings/bookings/", func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			client := s.newTestClient(router, &fakeTokens{access: "token"})

			bookings, err := client.Bookings(context.Background())

			s.Require().NoError(err)
			s.Require().Len(bookings, 2)
			s.Equal("BK0001", bookings[0].Reference)
			s.Equal("BK0002", bookings[1].Reference)
		})
	}
}

func (s *ClientTestSuite) TestProcessPayment() {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantTxnID  string
		wantErrMsg string
	}{
		{
			name: "should return the transaction on success",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{
					"success":        true,
					"booking_id":     42,
					"transaction_id": "pi_123",
				})
			},
			wantTxnID: "pi_123",
		},
		{
			name: "should surface a decline as a payment error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Your card was declined."})
			},
			wantErrMsg: "Your card was declined.",
		},
		{
			name: "should surface an unsuccessful result as a payment error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{
					"success": false,
					"error":   "Insufficient funds",
				})
			},
			wantErrMsg: "Insufficient funds",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			router := chi.NewRouter()
			router.Post("/bookings/bookings/42/process_payment/", tt.handler)

			client := s.newTestClient(router, &fakeTokens{access: "token"})

			result, err := client.ProcessPayment(context.Background(), 42, "pm_abc")

			if tt.wantErrMsg != "" {
				var paymentErr *domain.PaymentError
				s.Require().ErrorAs(err, &paymentErr)
				s.Equal(tt.wantErrMsg, paymentErr.Message)
				return
			}

			s.Require().NoError(err)
			s.Equal(tt.wantTxnID, result.TransactionID)
		})
	}
}

func (s *ClientTestSuite) TestMovieShowtimesForwardsFilters() {
	var gotQuery string

	router := chi.NewRouter()
	router.Get("/movies/movies/5/showtimes/", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []any{})
	})

	client := s.newTestClient(router, &fakeTokens{access: "token"})

	_, err := client.MovieShowtimes(context.Background(), 5, ShowtimeFilter{CinemaID: 3, Date: "2026-09-01"})

	s.Require().NoError(err)
	s.Equal("cinema=3&date=2026-09-01", gotQuery)
}
