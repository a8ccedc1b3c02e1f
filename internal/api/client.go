package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/omniwatch/cinema-client/internal/domain"
)

// TokenSource is the client's view of the session: read the current token
// pair, store a refreshed access token, and tear everything down when the
// refresh token is rejected. Only the session store and the single-refresh
// path below ever write through it.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(token string)
	Clear()
}

// Client is the single outbound gateway to the backend. Every authenticated
// request carries the current access token; a 401 triggers exactly one
// refresh-and-replay before the error is surfaced.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger

	// invoked after an irrecoverable refresh failure clears the session,
	// so the UI layer can navigate to login
	onSessionExpired func()
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

func WithSessionExpiredHook(fn func()) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// do sends an authenticated request. If the server answers 401 and a refresh
// token is on hand, it exchanges it for a new access token and replays the
// original request once. The replay never refreshes again, so a permanently
// invalid refresh token cannot loop.
func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	err := c.send(ctx, method, path, body, dst, c.tokens.AccessToken())

	var authErr *domain.AuthError
	if !errors.As(err, &authErr) {
		return err
	}

	refresh := c.tokens.RefreshToken()
	if refresh == "" {
		return err
	}

	access, refreshErr := c.refreshAccessToken(ctx, refresh)
	if refreshErr != nil {
		c.logger.Warn("token refresh failed, clearing session", "error", refreshErr)
		c.tokens.Clear()

		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}

		return err
	}

	c.tokens.SetAccessToken(access)

	return c.send(ctx, method, path, body, dst, access)
}

func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	input := struct {
		Refresh string `json:"refresh"`
	}{Refresh: refreshToken}

	var output struct {
		Access string `json:"access"`
	}

	err := c.send(ctx, http.MethodPost, "/token/refresh/", input, &output, "")
	if err != nil {
		return "", err
	}

	return output.Access, nil
}

// send performs one HTTP round trip with no retry behavior of its own.
func (c *Client) send(ctx context.Context, method, path string, body, dst any, accessToken string) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &domain.FetchError{Op: op, Err: err}
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &domain.FetchError{Op: op, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	if method != http.MethodGet {
		req.Header.Set("X-Request-ID", uuid.New().String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &domain.FetchError{Op: op, Err: err}
	}

	if resp.StatusCode >= 400 {
		return decodeError(op, resp.StatusCode, data)
	}

	if dst == nil {
		return nil
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return &domain.FetchError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}
