package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://social-commerce-be-production.up.railway.app"

var configDir string
var configFilePath string
var sessionPath string

// getConfigDir returns platform-specific config directory
func getConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		// Windows: %LOCALAPPDATA%\socialcommerce\cli
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "socialcommerce", "cli"), nil
	}

	// Unix-like (macOS, Linux): ~/.config/socialcommerce/cli
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "socialcommerce", "cli"), nil
}

// getSystemConfigPaths returns platform-specific system config paths
func getSystemConfigPaths() []string {
	if runtime.GOOS == "windows" {
		return []string{filepath.Join(os.Getenv("ProgramFiles"), "SocialCommerce", "cli", "config.toml")}
	}

	return []string{
		"/etc/socialcommerce/cli/config.toml",
		"/usr/local/etc/socialcommerce/cli/config.toml",
	}
}

// Init initializes the configuration
func Init(configPath string) error {
	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.toml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	sessionPath = filepath.Join(configDir, "session")

	viper.Reset()
	viper.SetConfigType("toml")

	// SOCIALCOMMERCE_API_BASE_URL overrides api.base_url, and so on.
	viper.SetEnvPrefix("socialcommerce")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// System config is the foundation, the user config overrides it.
	for _, sysConfigPath := range getSystemConfigPaths() {
		if _, err := os.Stat(sysConfigPath); err == nil {
			viper.SetConfigFile(sysConfigPath)
			_ = viper.ReadInConfig()
			break
		}
	}

	viper.SetConfigFile(configFilePath)
	if _, err := os.Stat(configFilePath); err == nil {
		if err := viper.MergeInConfig(); err != nil {
			return err
		}
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("api.base_url", DefaultBaseURL)
	viper.SetDefault("api.timeout", 30)
	viper.SetDefault("api.retry_count", 2)

	// Empty means derive from api.base_url.
	viper.SetDefault("ws.url", "")
	viper.SetDefault("ws.reconnect_delay_ms", 5000)

	viper.SetDefault("cart.remove_policy", "per_unit")
	viper.SetDefault("feed.page_size", 10)

	viper.SetDefault("output.format", "text")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", filepath.Join(configDir, "socialcommerce-cli.log"))
	viper.SetDefault("log.max_size_mb", 10)
	viper.SetDefault("log.max_backups", 3)

	viper.SetDefault("metrics.addr", "")
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetString returns a string configuration value
func GetString(key string) string {
	value := viper.GetString(key)
	if key == "log.file" {
		return expandPath(value)
	}
	return value
}

// GetInt returns an int configuration value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool configuration value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Set overrides a value for the current process only.
func Set(key string, value interface{}) {
	viper.Set(key, value)
}

// SetString sets a string configuration value and writes the user config file
func SetString(key string, value string) error {
	viper.Set(key, value)
	return viper.WriteConfigAs(configFilePath)
}

// WebSocketURL returns ws.url, or the STOMP endpoint derived from api.base_url.
func WebSocketURL() string {
	if u := GetString("ws.url"); u != "" {
		return u
	}
	base := strings.TrimRight(GetString("api.base_url"), "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws/websocket"
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetConfigFilePath returns the user config file path
func GetConfigFilePath() string {
	return configFilePath
}

// GetSessionPath returns the path to the persisted session file
func GetSessionPath() string {
	return sessionPath
}
