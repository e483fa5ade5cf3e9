package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zfogg/socialcommerce/cli/pkg/service"
)

var ordersCmd = &cobra.Command{
	Use:     "orders",
	Aliases: []string{"order"},
	Short:   "Order history commands",
}

func orderService() *service.OrderService {
	return service.NewOrderService(apiClient(), currentSession())
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return orderService().List(cmd.Context())
	},
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return orderService().Show(cmd.Context(), args[0])
	},
}

func init() {
	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersShowCmd)
}
