package api

import (
	"context"
	"net/http"
	"net/url"

	"smartwaste-dashboard/internal/models"
)

// ListBins lists bins, filtered by status when status is not empty.
func (c *Client) ListBins(ctx context.Context, status string) ([]models.Bin, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}
	raw, err := c.getList(ctx, "/api/bins", query)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Bin](raw), nil
}

// FetchOwnedBins lists the bins assigned to the signed-in bin owner.
func (c *Client) FetchOwnedBins(ctx context.Context) ([]models.Bin, error) {
	raw, err := c.getList(ctx, "/api/bins/fetch", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Bin](raw), nil
}

func (c *Client) AddBin(ctx context.Context, binID string) error {
	return c.send(ctx, http.MethodPost, "/api/bins/add", models.AddBinRequest{BinID: binID})
}

// UpdateBinLocation is the only field edit bins support.
func (c *Client) UpdateBinLocation(ctx context.Context, binID string, lat, lng float64) error {
	return c.send(ctx, http.MethodPut, "/api/bins/"+url.PathEscape(binID), models.UpdateBinLocationRequest{
		Latitude:  lat,
		Longitude: lng,
	})
}

func (c *Client) DeleteBin(ctx context.Context, binID string) error {
	return c.send(ctx, http.MethodDelete, "/api/bins/"+url.PathEscape(binID), nil)
}

// SelfAssignBin claims an available bin for the signed-in bin owner.
func (c *Client) SelfAssignBin(ctx context.Context, binID string) error {
	return c.send(ctx, http.MethodPut, "/api/bins/"+url.PathEscape(binID)+"/assign", nil)
}
