package api

import (
	"context"
	"net/http"
	"net/url"

	"smartwaste-dashboard/internal/models"
)

// ListMaintenance reads the paged listing; only data.content is used.
func (c *Client) ListMaintenance(ctx context.Context) ([]models.MaintenanceRequest, error) {
	raw, err := c.getList(ctx, "/api/maintenance-requests", nil)
	if err != nil {
		return nil, err
	}
	return decodePage[models.MaintenanceRequest](raw), nil
}

func (c *Client) AddMaintenance(ctx context.Context, body models.MaintenanceRequestBody) error {
	return c.send(ctx, http.MethodPost, "/api/maintenance-requests", body)
}

func (c *Client) UpdateMaintenance(ctx context.Context, id string, body models.MaintenanceRequestBody) error {
	return c.send(ctx, http.MethodPut, "/api/maintenance-requests/"+url.PathEscape(id), body)
}

// UpdateMaintenanceStatus is separate from field edits.
func (c *Client) UpdateMaintenanceStatus(ctx context.Context, id, status string) error {
	_, err := c.do(ctx, http.MethodPut, "/api/maintenance-requests/"+url.PathEscape(id)+"/status",
		url.Values{"status": {status}}, nil)
	return err
}

func (c *Client) DeleteMaintenance(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/maintenance-requests/"+url.PathEscape(id), nil)
}
