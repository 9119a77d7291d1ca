package momoapi

import (
	"context"
	"net/http"

	"github.com/MitsuruMe/momomoving-fe/internal/models"
)

func (c *Client) Me(ctx context.Context, token string) (models.User, error) {
	var user models.User
	err := c.do(ctx, request{method: http.MethodGet, path: "/users/me", token: token}, &user)
	return user, err
}

func (c *Client) UpdateMe(ctx context.Context, token string, in models.UpdateUserRequest) (models.User, error) {
	req, err := c.jsonRequest(http.MethodPut, "/users/me", token, in)
	if err != nil {
		return models.User{}, err
	}

	var user models.User
	err = c.do(ctx, req, &user)
	return user, err
}
