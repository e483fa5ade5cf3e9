package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

// ErrNoCheckoutURL is returned when checkout succeeds without a payment page
var ErrNoCheckoutURL = errors.New("checkout did not return a payment URL")

// AddToCart adds one unit of productID
func (c *Client) AddToCart(ctx context.Context, productID int64) error {
	logger.Debug("Adding unit to cart", "product_id", productID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("productId", strconv.FormatInt(productID, 10)).
		Post("/carts/{productId}")
	return CheckResponse(resp, err)
}

// RemoveFromCart removes exactly one unit of productID
func (c *Client) RemoveFromCart(ctx context.Context, productID int64) error {
	logger.Debug("Removing unit from cart", "product_id", productID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("productId", strconv.FormatInt(productID, 10)).
		Put("/carts/{productId}")
	return CheckResponse(resp, err)
}

// GetCart returns the authoritative cart. An empty body is an empty cart.
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	logger.Debug("Fetching cart")

	resp, err := c.http.R().
		SetContext(ctx).
		Get("/carts")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var cart Cart
	if len(resp.Body()) == 0 {
		return &cart, nil
	}
	if err := json.Unmarshal(resp.Body(), &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &cart, nil
}

// InitiateCheckout starts payment for the current cart
func (c *Client) InitiateCheckout(ctx context.Context) (*CheckoutResponse, error) {
	logger.Debug("Initiating checkout")

	resp, err := c.http.R().
		SetContext(ctx).
		Get("/carts/initiate-checkout")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var checkout CheckoutResponse
	if err := json.Unmarshal(resp.Body(), &checkout); err != nil {
		return nil, fmt.Errorf("decode checkout: %w", err)
	}
	if checkout.CheckoutURL == "" {
		if checkout.Message != "" {
			return &checkout, fmt.Errorf("%w: %s", ErrNoCheckoutURL, checkout.Message)
		}
		return &checkout, ErrNoCheckoutURL
	}
	return &checkout, nil
}
