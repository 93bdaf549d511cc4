package api

import (
	"context"
	"net/http"
	"net/url"

	"smartwaste-dashboard/internal/models"
)

// Authenticate exchanges credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context, username, password string) (models.AuthenticationData, error) {
	raw, err := c.do(ctx, http.MethodPost, "/api/auth/authenticate", nil, models.AuthenticateRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return models.AuthenticationData{}, err
	}
	return decodeObject[models.AuthenticationData](raw)
}

// Register creates a bin-owner account through the public sign-up endpoint.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.send(ctx, http.MethodPost, "/api/auth/register", req)
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	raw, err := c.getList(ctx, "/api/admin/users", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.User](raw), nil
}

func (c *Client) CreateCollector(ctx context.Context, req models.CollectorCreateRequest) error {
	return c.send(ctx, http.MethodPost, "/api/admin/collectors", req)
}

func (c *Client) DeleteCollector(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/admin/collectors/"+url.PathEscape(id), nil)
}

// UpdateUser changes another user's display name.
func (c *Client) UpdateUser(ctx context.Context, id, name string) error {
	return c.send(ctx, http.MethodPut, "/api/admin/users/"+url.PathEscape(id), models.ProfileUpdateRequest{Name: name})
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (models.User, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/admin/users/profile", nil, nil)
	if err != nil {
		return models.User{}, err
	}
	return decodeObject[models.User](raw)
}

func (c *Client) UpdateProfile(ctx context.Context, name string) (models.User, error) {
	raw, err := c.do(ctx, http.MethodPut, "/api/admin/users/profile", nil, models.ProfileUpdateRequest{Name: name})
	if err != nil {
		return models.User{}, err
	}
	return decodeObject[models.User](raw)
}

func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	raw, err := c.getList(ctx, "/api/notifications", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Notification](raw), nil
}
