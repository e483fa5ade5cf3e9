package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/service"
)

var (
	productName   string
	productAmount string
	productImage  string
)

var productsCmd = &cobra.Command{
	Use:     "products",
	Aliases: []string{"product"},
	Short:   "Product catalog commands",
}

func productService() *service.ProductService {
	return service.NewProductService(apiClient(), currentSession())
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all products",
	RunE: func(cmd *cobra.Command, args []string) error {
		return productService().List(cmd.Context())
	},
}

var productsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the products you uploaded",
	RunE: func(cmd *cobra.Command, args []string) error {
		return productService().Mine(cmd.Context())
	},
}

var productsUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a product with an image",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(productAmount)
		if err != nil {
			return fmt.Errorf("invalid amount %q", productAmount)
		}
		return productService().Upload(cmd.Context(), api.UploadProductRequest{
			ImagePath: productImage,
			Name:      productName,
			Amount:    amount,
		})
	},
}

func init() {
	productsUploadCmd.Flags().StringVar(&productName, "name", "", "Product name")
	productsUploadCmd.Flags().StringVar(&productAmount, "amount", "", "Price, e.g. 19.99")
	productsUploadCmd.Flags().StringVar(&productImage, "image", "", "Path to the product image")
	_ = productsUploadCmd.MarkFlagRequired("name")
	_ = productsUploadCmd.MarkFlagRequired("amount")
	_ = productsUploadCmd.MarkFlagRequired("image")

	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsMineCmd)
	productsCmd.AddCommand(productsUploadCmd)
}
