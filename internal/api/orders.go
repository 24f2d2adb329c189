package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sutherm/glos-geo/internal/model"
)

// Order lifecycle states reported by the service.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusComplete   = "complete"
	OrderStatusFailed     = "failed"
)

// OrderRequest describes a bulk extract order: a geographic region and an
// observation date range.
type OrderRequest struct {
	BBox      model.BoundingBox
	StartDate time.Time
	EndDate   time.Time
}

// Validate checks the order parameters before submission.
func (r OrderRequest) Validate() error {
	if err := r.BBox.Validate(); err != nil {
		return fmt.Errorf("bbox: %w", err)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return fmt.Errorf("end date %s before start date %s",
			r.EndDate.Format("2006-01-02"), r.StartDate.Format("2006-01-02"))
	}
	return nil
}

// OrderStatus is the service's view of a submitted order.
type OrderStatus struct {
	OrderID        string `json:"order_id"`
	Status         string `json:"status"`
	OutputLocation string `json:"output_location,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Terminal reports whether the order has finished, successfully or not.
func (s OrderStatus) Terminal() bool {
	return s.Status == OrderStatusComplete || s.Status == OrderStatusFailed
}

// orderPayload is the wire form of an order submission.
type orderPayload struct {
	Email     string     `json:"email"`
	BBox      [4]float64 `json:"bbox"` // minLon, minLat, maxLon, maxLat
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	RequestID string     `json:"request_id"`
}

// submitResponse is the body returned by a successful submission.
type submitResponse struct {
	OrderID string `json:"order_id"`
}

// SubmitOrder submits an extract order and returns the service-assigned
// order identifier. Only a 201 response counts as accepted; anything else
// is surfaced as an *APIError.
func (c *Client) SubmitOrder(ctx context.Context, req OrderRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("invalid order: %w", err)
	}

	payload := orderPayload{
		Email:     c.contact,
		BBox:      [4]float64{req.BBox.MinLon, req.BBox.MinLat, req.BBox.MaxLon, req.BBox.MaxLat},
		StartDate: req.StartDate.UTC().Format("2006-01-02"),
		EndDate:   req.EndDate.UTC().Format("2006-01-02"),
		RequestID: uuid.NewString(),
	}

	status, body, err := c.postJSON(ctx, "/orders", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", &APIError{
			StatusCode: status,
			Message:    fmt.Sprintf("order not accepted: want 201, got %d", status),
			Body:       body,
		}
	}

	var resp submitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.OrderID == "" {
		return "", &APIError{
			StatusCode: status,
			Message:    "order accepted without an order_id",
			Body:       body,
		}
	}

	c.logger.Info("order submitted",
		"order_id", resp.OrderID,
		"request_id", payload.RequestID,
	)

	return resp.OrderID, nil
}

// GetOrderStatus fetches the current state of an order.
func (c *Client) GetOrderStatus(ctx context.Context, orderID string) (OrderStatus, error) {
	var status OrderStatus
	if err := c.get(ctx, "/orders/"+orderID, nil, &status); err != nil {
		return OrderStatus{}, err
	}
	if status.OrderID == "" {
		status.OrderID = orderID
	}
	return status, nil
}
