package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/client"
	"github.com/zfogg/socialcommerce/cli/pkg/config"
	clierrors "github.com/zfogg/socialcommerce/cli/pkg/errors"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/metrics"
	"github.com/zfogg/socialcommerce/cli/pkg/output"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

var (
	verbose     bool
	configPath  string
	outputFmt   string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "socialcommerce-cli",
	Short: "SocialCommerce CLI - shop the products in short videos",
	Long: `SocialCommerce CLI is a command-line client for the SocialCommerce
platform. Browse the video feed, manage your cart and check out, upload
products and chat with sellers directly from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("initializing config: %w", err)
		}

		logger.Init(verbose)

		if outputFmt != "" {
			if !output.ValidateOutputFormat(outputFmt) {
				return clierrors.ValidationError("output", "must be one of text, json, table")
			}
			config.Set("output.format", outputFmt)
		}

		sess, err := session.Load(config.GetSessionPath())
		if err != nil {
			logger.Warn("Ignoring unreadable session file", "path", config.GetSessionPath(), "error", err)
			sess = session.New(config.GetSessionPath())
		}
		client.Init(sess)

		addr := metricsAddr
		if addr == "" {
			addr = config.GetString("metrics.addr")
		}
		if addr != "" {
			go func() {
				if err := metrics.Serve(cmd.Context(), addr); err != nil {
					logger.Warn("Metrics endpoint stopped", "addr", addr, "error", err)
				}
			}()
			logger.Debug("Serving metrics", "addr", addr)
		}
		return nil
	},
}

// closeLog runs after every command, failed ones included
var closeLog = logger.Close

func run(ctx context.Context) error {
	defer func() { _ = closeLog() }()
	return rootCmd.ExecuteContext(ctx)
}

// Execute runs the root command, cancelling on SIGINT or SIGTERM
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprint(os.Stderr, clierrors.FormatError(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/socialcommerce/cli/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "", "Output format: text, json, table")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address while the command runs")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(messageCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func currentSession() *session.Session {
	if s := client.Session(); s != nil {
		return s
	}
	return session.New("")
}

func apiClient() *api.Client {
	return api.Default()
}

// parseID reads a positive integer id
func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, clierrors.ValidationError(kind+" id", fmt.Sprintf("%q is not a positive integer", s))
	}
	return id, nil
}
