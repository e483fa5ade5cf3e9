package service

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/zfogg/socialcommerce/cli/pkg/api"
	clierrors "github.com/zfogg/socialcommerce/cli/pkg/errors"
	"github.com/zfogg/socialcommerce/cli/pkg/formatter"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/output"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

// ProductService lists and uploads products
type ProductService struct {
	api  *api.Client
	sess *session.Session
}

// NewProductService creates a new product service
func NewProductService(c *api.Client, sess *session.Session) *ProductService {
	return &ProductService{api: c, sess: sess}
}

// List displays the catalog
func (ps *ProductService) List(ctx context.Context) error {
	products, err := ps.api.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}
	if len(products) == 0 {
		printf("No products available.\n")
		return nil
	}
	return displayProducts(products)
}

// Mine displays the products uploaded by the logged-in user
func (ps *ProductService) Mine(ctx context.Context) error {
	if err := requireSession(ps.sess); err != nil {
		return err
	}

	products, err := ps.api.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	me := ps.sess.UserID()
	mine := make([]api.Product, 0, len(products))
	for _, p := range products {
		if p.UserID == me {
			mine = append(mine, p)
		}
	}
	logger.Debug("Filtered own products", "user_id", me, "count", len(mine), "of", len(products))

	if len(mine) == 0 {
		printf("You have not uploaded any products yet.\n")
		return nil
	}
	return displayProducts(mine)
}

// Upload creates a product from an image file
func (ps *ProductService) Upload(ctx context.Context, req api.UploadProductRequest) error {
	if err := requireSession(ps.sess); err != nil {
		return err
	}
	if req.Name == "" {
		return clierrors.ValidationError("name", "is required")
	}
	if !req.Amount.IsPositive() {
		return clierrors.ValidationError("amount", "must be positive")
	}
	if _, err := os.Stat(req.ImagePath); err != nil {
		return clierrors.FileNotFoundError(req.ImagePath)
	}

	product, err := ps.api.UploadProduct(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to upload product: %w", err)
	}

	if output.IsJSON() {
		return output.Print("", product)
	}
	output.PrintSuccess("Uploaded %s for %s (id %d)", product.Name, formatter.Money(product.Amount), product.ID)
	return nil
}

func displayProducts(products []api.Product) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			formatter.Truncate(p.Name, 40),
			formatter.Money(p.Amount),
		})
	}
	return output.PrintList(products, []string{"ID", "NAME", "PRICE"}, rows)
}
