package momoapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

// Login submits OAuth2 password-form credentials and returns the issued
// bearer token.
func (c *Client) Login(ctx context.Context, username string, password string) (models.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token models.Token
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &token)
	return token, err
}

func (c *Client) Register(ctx context.Context, in models.RegisterRequest) (models.RegisterResponse, error) {
	req, err := c.jsonRequest(http.MethodPost, "/auth/register", "", in)
	if err != nil {
		return models.RegisterResponse{}, err
	}

	var out models.RegisterResponse
	err = c.do(ctx, req, &out)
	return out, err
}
