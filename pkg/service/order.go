package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/formatter"
	"github.com/zfogg/socialcommerce/cli/pkg/output"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

// OrderService shows past checkouts
type OrderService struct {
	api  *api.Client
	sess *session.Session
}

// NewOrderService creates a new order service
func NewOrderService(c *api.Client, sess *session.Session) *OrderService {
	return &OrderService{api: c, sess: sess}
}

func paidLabel(paid bool) string {
	if paid {
		return "paid"
	}
	return "pending"
}

// List displays the user's orders
func (s *OrderService) List(ctx context.Context) error {
	if err := requireSession(s.sess); err != nil {
		return err
	}

	orders, err := s.api.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}
	if len(orders) == 0 {
		printf("No orders yet.\n")
		return nil
	}

	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.OrderID,
			strconv.Itoa(len(o.Products)),
			formatter.Money(o.TotalAmount),
			paidLabel(o.Paid),
		})
	}
	return output.PrintList(orders, []string{"ORDER", "ITEMS", "TOTAL", "STATUS"}, rows)
}

// Show displays one order with its products
func (s *OrderService) Show(ctx context.Context, orderID string) error {
	if err := requireSession(s.sess); err != nil {
		return err
	}

	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if output.IsJSON() {
		return output.Print("", order)
	}

	if err := output.PrintRecord("Order "+order.OrderID, []output.Field{
		{Key: "Status", Value: paidLabel(order.Paid)},
		{Key: "Total", Value: formatter.Money(order.TotalAmount)},
	}); err != nil {
		return err
	}
	printf("\n")

	rows := make([][]string, 0, len(order.Products))
	for _, p := range order.Products {
		rows = append(rows, []string{strconv.FormatInt(p.ProductID, 10), p.Name, formatter.Money(p.Amount)})
	}
	return output.PrintList(order.Products, []string{"ID", "PRODUCT", "PRICE"}, rows)
}
