package api

import (
	"context"
	"net/http"

	"github.com/omniwatch/cinema-client/internal/domain"
)

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=30"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=50"`
}

type RegisterResponse struct {
	User    domain.User `json:"user"`
	Access  string      `json:"access"`
	Refresh string      `json:"refresh"`
	Message string      `json:"message"`
}

type ProfileUpdate struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Login exchanges credentials for a token pair. It deliberately bypasses the
// refresh-and-replay path: a 401 here means bad credentials, not an expired
// session, and must not touch stored tokens.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	input := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var pair TokenPair

	err := c.send(ctx, http.MethodPost, "/token/", input, &pair, "")
	if err != nil {
		return nil, err
	}

	return &pair, nil
}

// Register creates an account. The backend logs the new user in immediately,
// returning a token pair alongside the profile.
func (c *Client) Register(ctx context.Context, input RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse

	err := c.send(ctx, http.MethodPost, "/users/register/", input, &resp, "")
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User

	err := c.do(ctx, http.MethodGet, "/users/profile/", nil, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, input ProfileUpdate) (*domain.User, error) {
	var user domain.User

	err := c.do(ctx, http.MethodPut, "/users/profile/", input, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	input := struct {
		Email string `json:"email"`
	}{Email: email}

	return c.send(ctx, http.MethodPost, "/users/forgot-password/", input, nil, "")
}

func (c *Client) ResetPassword(ctx context.Context, uid, token, password string) error {
	input := struct {
		UID      string `json:"uid"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}{UID: uid, Token: token, Password: password}

	return c.send(ctx, http.MethodPost, "/users/password-reset-confirm/", input, nil, "")
}
