package api

import (
	"context"
	"net/http"
	"net/url"

	"smartwaste-dashboard/internal/models"
)

func (c *Client) ListRoutes(ctx context.Context) ([]models.Route, error) {
	raw, err := c.getList(ctx, "/api/routes", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Route](raw), nil
}

func (c *Client) AddRoute(ctx context.Context, req models.RouteRequest) error {
	return c.send(ctx, http.MethodPost, "/api/routes", req)
}

func (c *Client) UpdateRoute(ctx context.Context, id string, req models.RouteRequest) error {
	return c.send(ctx, http.MethodPut, "/api/routes/"+url.PathEscape(id), req)
}

func (c *Client) DeleteRoute(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/routes/"+url.PathEscape(id), nil)
}

func (c *Client) AssignRoute(ctx context.Context, routeID, collectorID string) error {
	return c.send(ctx, http.MethodPost, "/api/routes/assign", models.RouteAssignRequest{
		RouteID:     routeID,
		CollectorID: collectorID,
	})
}
