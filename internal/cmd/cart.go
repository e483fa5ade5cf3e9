package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zfogg/socialcommerce/cli/pkg/cart"
	"github.com/zfogg/socialcommerce/cli/pkg/config"
	"github.com/zfogg/socialcommerce/cli/pkg/service"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Shopping cart commands",
	Long:  "Show the cart, add, change or remove products, and check out",
}

// withCart builds a cart service for one command and closes its queue after
func withCart(fn func(*service.CartService) error) error {
	policy, err := cart.ParseRemovePolicy(config.GetString("cart.remove_policy"))
	if err != nil {
		return err
	}
	svc := service.NewCartService(apiClient(), currentSession(), policy)
	defer svc.Close()
	return fn(svc)
}

func parseProductID(s string) (int64, error) {
	return parseID("product", s)
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCart(func(s *service.CartService) error {
			return s.Show(cmd.Context())
		})
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add one unit of a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProductID(args[0])
		if err != nil {
			return err
		}
		return withCart(func(s *service.CartService) error {
			return s.Add(cmd.Context(), id)
		})
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set <product-id> <quantity>",
	Short: "Change a product's quantity one unit at a time",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProductID(args[0])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return withCart(func(s *service.CartService) error {
			return s.SetQuantity(cmd.Context(), id, qty)
		})
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the cart",
	Long: `Remove every unit of a product. With cart.remove_policy = "local" the
line is only hidden locally and reappears on the next reload.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseProductID(args[0])
		if err != nil {
			return err
		}
		return withCart(func(s *service.CartService) error {
			return s.Remove(cmd.Context(), id)
		})
	},
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Start checkout and print the payment URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCart(func(s *service.CartService) error {
			return s.Checkout(cmd.Context())
		})
	},
}

func init() {
	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartSetCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartCheckoutCmd)
}
