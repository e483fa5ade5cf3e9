package api

import (
	"context"
	"fmt"

	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

// ListProducts returns the catalog. Products without a usable ID are
// dropped with a warning.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	logger.Debug("Fetching products")

	resp, err := c.http.R().
		SetContext(ctx).
		Get("/products")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var products []Product
	if err := json.Unmarshal(resp.Body(), &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return normalizeProducts(products, "products"), nil
}

// UploadProduct creates a product with an image
func (c *Client) UploadProduct(ctx context.Context, req UploadProductRequest) (*Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if req.ImagePath == "" {
		return nil, fmt.Errorf("product image is required")
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("product amount must be positive")
	}

	logger.Debug("Uploading product", "name", req.Name, "amount", req.Amount.String())

	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("image", req.ImagePath).
		SetMultipartFormData(map[string]string{
			"name":   req.Name,
			"amount": req.Amount.String(),
		}).
		Post("/products")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var product Product
	if err := json.Unmarshal(resp.Body(), &product); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	if err := product.Normalize(); err != nil {
		logger.Warn("Uploaded product has no usable ID", "error", err)
	}
	return &product, nil
}
