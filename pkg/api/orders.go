package api

import (
	"context"
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

// ListOrders returns the caller's orders
func (c *Client) ListOrders(ctx context.Context) ([]Order, error) {
	logger.Debug("Fetching orders")

	resp, err := c.http.R().
		SetContext(ctx).
		Get("/orders")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var orders []Order
	if err := json.Unmarshal(resp.Body(), &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns one order
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	logger.Debug("Fetching order", "order_id", orderID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("orderId", orderID).
		Get("/orders/{orderId}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var order Order
	if err := json.Unmarshal(resp.Body(), &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return &order, nil
}
