package gateway

import (
	"context"
	"net/http"

	"github.com/comandaapp/comanda/internal/comanda/domain"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a session. The call itself is
// unauthenticated; persisting the returned token is the session store's job.
func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, "/session", signInRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		Token: resp.Token,
		User:  domain.User{ID: resp.ID, Name: resp.Name, Email: resp.Email},
	}, nil
}

// DetailUser returns the user the current bearer token belongs to.
func (c *Client) DetailUser(ctx context.Context) (domain.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/detailUser", nil, &resp); err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: resp.ID, Name: resp.Name, Email: resp.Email}, nil
}
