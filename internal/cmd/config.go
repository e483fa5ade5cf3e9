package cmd

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zfogg/socialcommerce/cli/pkg/config"
	clierrors "github.com/zfogg/socialcommerce/cli/pkg/errors"
	"github.com/zfogg/socialcommerce/cli/pkg/output"
)

// settableKeys are the keys `config set` may persist
var settableKeys = []string{
	"api.base_url",
	"api.timeout",
	"api.retry_count",
	"ws.url",
	"ws.reconnect_delay_ms",
	"cart.remove_policy",
	"feed.page_size",
	"output.format",
	"log.level",
	"log.file",
	"metrics.addr",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change CLI settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := make([]output.Field, 0, len(settableKeys)+3)
		for _, key := range settableKeys {
			fields = append(fields, output.Field{Key: key, Value: config.GetString(key)})
		}
		fields = append(fields,
			output.Field{Key: "ws.effective_url", Value: config.WebSocketURL()},
			output.Field{Key: "config_file", Value: config.GetConfigFilePath()},
			output.Field{Key: "session_file", Value: config.GetSessionPath()},
		)
		return output.PrintRecord("Configuration", fields)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting to the user config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if !slices.Contains(settableKeys, key) {
			return clierrors.ValidationError(key, "unknown setting, one of "+strings.Join(settableKeys, ", "))
		}
		if key == "output.format" && !output.ValidateOutputFormat(value) {
			return clierrors.ValidationError(key, "must be one of text, json, table")
		}
		if err := config.SetString(key, value); err != nil {
			return err
		}
		output.PrintSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
