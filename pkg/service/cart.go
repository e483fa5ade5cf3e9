package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/cart"
	clierrors "github.com/zfogg/socialcommerce/cli/pkg/errors"
	"github.com/zfogg/socialcommerce/cli/pkg/formatter"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/output"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

// CartService drives the cart queue
type CartService struct {
	api   *api.Client
	sess  *session.Session
	queue *cart.Queue
}

// NewCartService creates a cart service whose queue talks to c
func NewCartService(c *api.Client, sess *session.Session, policy cart.RemovePolicy) *CartService {
	q := cart.NewQueue(cart.NewRemoteSource(c), cart.WithRemovePolicy(policy))
	q.Subscribe(func(s cart.Snapshot) {
		logger.Debug("Cart snapshot",
			"generation", s.Generation,
			"units", s.Units(),
			"total", s.Total.String(),
			"optimistic", s.Optimistic,
		)
	})
	return &CartService{api: c, sess: sess, queue: q}
}

// Queue exposes the underlying queue
func (s *CartService) Queue() *cart.Queue {
	return s.queue
}

// Close stops snapshot delivery
func (s *CartService) Close() {
	s.queue.Close()
}

// Show reloads and prints the cart
func (s *CartService) Show(ctx context.Context) error {
	if err := requireSession(s.sess); err != nil {
		return err
	}
	snap, err := s.queue.Reload(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	return displayCart(snap)
}

// Add puts one unit of productID in the cart
func (s *CartService) Add(ctx context.Context, productID int64) error {
	if err := requireSession(s.sess); err != nil {
		return err
	}

	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return err
	}
	if _, err := s.queue.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	if err := s.queue.RequestAdd(ctx, product); err != nil {
		return fmt.Errorf("failed to add %s: %w", product.Name, err)
	}

	snap := s.queue.Snapshot()
	output.PrintSuccess("Added %s (now %d in cart)", product.Name, snap.Quantity(productID))
	return displayCart(snap)
}

// SetQuantity steps productID one unit at a time until it reaches quantity
func (s *CartService) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	if err := requireSession(s.sess); err != nil {
		return err
	}
	if quantity < 0 {
		return clierrors.ValidationError("quantity", "cannot be negative")
	}

	snap, err := s.queue.Reload(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	if snap.Quantity(productID) == 0 && quantity > 0 {
		// the queue needs name and price to show a new line
		product, err := s.lookupProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := s.queue.RequestAdd(ctx, product); err != nil {
			return fmt.Errorf("failed to add %s: %w", product.Name, err)
		}
	}

	for {
		current := s.queue.Snapshot().Quantity(productID)
		if current == quantity {
			break
		}
		if err := s.queue.RequestQuantityChange(ctx, productID, quantity); err != nil {
			return fmt.Errorf("failed to change quantity: %w", err)
		}
		if s.queue.Snapshot().Quantity(productID) == current {
			return fmt.Errorf("quantity of product %d stuck at %d", productID, current)
		}
	}

	output.PrintSuccess("Quantity of product %d is now %d", productID, quantity)
	return displayCart(s.queue.Snapshot())
}

// Remove drops every unit of productID
func (s *CartService) Remove(ctx context.Context, productID int64) error {
	if err := requireSession(s.sess); err != nil {
		return err
	}

	snap, err := s.queue.Reload(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	entry, ok := snap.Find(productID)
	if !ok {
		return clierrors.NotFoundError("Cart item", strconv.FormatInt(productID, 10))
	}

	if err := s.queue.RequestRemoveAll(ctx, productID); err != nil {
		return fmt.Errorf("failed to remove %s: %w", entry.Name, err)
	}

	output.PrintSuccess("Removed %s", entry.Name)
	return displayCart(s.queue.Snapshot())
}

// Checkout asks the backend for a hosted payment page
func (s *CartService) Checkout(ctx context.Context) error {
	if err := requireSession(s.sess); err != nil {
		return err
	}

	snap, err := s.queue.Reload(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	if snap.IsEmpty() {
		return clierrors.CheckoutError("Your cart is empty")
	}

	resp, err := s.api.InitiateCheckout(ctx)
	if errors.Is(err, api.ErrNoCheckoutURL) {
		return clierrors.CheckoutError(err.Error())
	}
	if err != nil {
		return fmt.Errorf("checkout failed: %w", err)
	}

	if output.IsJSON() {
		return output.Print("", resp)
	}
	output.PrintSuccess("Checkout ready for %s", formatter.Money(snap.Total))
	printf("Complete your payment at:\n  %s\n", resp.CheckoutURL)
	return nil
}

func (s *CartService) lookupProduct(ctx context.Context, productID int64) (cart.Product, error) {
	if productID <= 0 {
		return cart.Product{}, clierrors.ValidationError("product id", "must be a positive integer")
	}

	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return cart.Product{}, fmt.Errorf("failed to load products: %w", err)
	}
	for _, p := range products {
		if p.ID == productID {
			return cart.Product{ID: p.ID, Name: p.Name, Amount: p.Amount, ImageURL: p.ImageURL}, nil
		}
	}
	return cart.Product{}, clierrors.NotFoundError("Product", strconv.FormatInt(productID, 10))
}

func displayCart(snap cart.Snapshot) error {
	if output.IsJSON() {
		return output.Print("", snap)
	}

	if snap.IsEmpty() {
		printf("Your cart is empty.\n")
		return nil
	}

	rows := make([][]string, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		rows = append(rows, []string{
			strconv.FormatInt(e.ProductID, 10),
			formatter.Truncate(e.Name, 32),
			strconv.Itoa(e.Quantity),
			formatter.Money(e.UnitAmount),
			formatter.Money(e.UnitAmount.Mul(decimal.NewFromInt(int64(e.Quantity)))),
		})
	}
	if err := output.PrintList(snap, []string{"ID", "PRODUCT", "QTY", "PRICE", "SUBTOTAL"}, rows); err != nil {
		return err
	}

	units := snap.Units()
	printf("\n%d item%s, total %s\n", units, pluralize(units), formatter.Price.Sprint(formatter.Money(snap.Total)))
	if snap.TotalMismatch() {
		output.PrintWarning("The server reports a total of %s", formatter.Money(snap.ServerTotal.Decimal))
	}
	if snap.Skipped > 0 {
		output.PrintWarning("Skipped %d unreadable cart item%s", snap.Skipped, pluralize(snap.Skipped))
	}
	return nil
}
