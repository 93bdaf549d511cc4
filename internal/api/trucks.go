package api

import (
	"context"
	"net/http"
	"net/url"

	"smartwaste-dashboard/internal/models"
)

func (c *Client) ListTrucks(ctx context.Context, status string) ([]models.Truck, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}
	raw, err := c.getList(ctx, "/api/admin/trucks", query)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Truck](raw), nil
}

func (c *Client) AddTruck(ctx context.Context, req models.TruckRequest) error {
	return c.send(ctx, http.MethodPost, "/api/admin/trucks/add", req)
}

func (c *Client) UpdateTruck(ctx context.Context, id string, req models.TruckRequest) error {
	return c.send(ctx, http.MethodPut, "/api/admin/trucks/"+url.PathEscape(id), req)
}

func (c *Client) DeleteTruck(ctx context.Context, id string) error {
	return c.send(ctx, http.MethodDelete, "/api/admin/trucks/"+url.PathEscape(id), nil)
}

func (c *Client) AssignCollector(ctx context.Context, truckID, collectorID string) error {
	return c.send(ctx, http.MethodPost, "/api/admin/trucks/assign-collector", models.AssignCollectorRequest{
		TruckID:     truckID,
		CollectorID: collectorID,
	})
}

// AvailableCollectors lists collectors not paired with any truck.
func (c *Client) AvailableCollectors(ctx context.Context) ([]models.CollectorProfile, error) {
	raw, err := c.getList(ctx, "/api/collector/trucks/available-collectors", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.CollectorProfile](raw), nil
}

// TruckAssignments lists the {truck, collector} pairings.
func (c *Client) TruckAssignments(ctx context.Context) ([]models.TruckAssignment, error) {
	raw, err := c.getList(ctx, "/api/collector/trucks", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.TruckAssignment](raw), nil
}
