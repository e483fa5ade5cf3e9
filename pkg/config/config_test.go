package config

import (
	"os"
	"path/filepath"
	"testing"
)

func initTemp(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Init(path); err != nil {
		t.Fatalf("Failed to initialize config: %v", err)
	}
	return path
}

// TestInitWithCustomPath validates custom config path
func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	if err := Init(customConfigPath); err != nil {
		t.Fatalf("Failed to initialize with custom path: %v", err)
	}

	expectedDir := filepath.Join(tempDir, "custom", "path")
	if GetConfigDir() != expectedDir {
		t.Errorf("Expected config dir %s, got %s", expectedDir, GetConfigDir())
	}

	if _, err := os.Stat(expectedDir); err != nil {
		t.Errorf("Config directory should exist: %v", err)
	}
}

// TestSessionPathUnderConfigDir validates the session file location
func TestSessionPathUnderConfigDir(t *testing.T) {
	initTemp(t)

	sessionPath := GetSessionPath()
	if filepath.Dir(sessionPath) != GetConfigDir() {
		t.Errorf("Session path %s should be in config dir %s", sessionPath, GetConfigDir())
	}
}

func TestDefaults(t *testing.T) {
	initTemp(t)

	if got := GetString("api.base_url"); got != DefaultBaseURL {
		t.Errorf("api.base_url: got %q, want %q", got, DefaultBaseURL)
	}
	if got := GetInt("api.timeout"); got != 30 {
		t.Errorf("api.timeout: got %d, want 30", got)
	}
	if got := GetString("cart.remove_policy"); got != "per_unit" {
		t.Errorf("cart.remove_policy: got %q, want per_unit", got)
	}
	if got := GetInt("feed.page_size"); got != 10 {
		t.Errorf("feed.page_size: got %d, want 10", got)
	}
	if got := GetString("output.format"); got != "text" {
		t.Errorf("output.format: got %q, want text", got)
	}
	if got := GetString("log.level"); got != "info" {
		t.Errorf("log.level: got %q, want info", got)
	}
	if got := GetString("log.file"); filepath.Dir(got) != GetConfigDir() {
		t.Errorf("log.file %q should be under config dir", got)
	}
}

func TestUserConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[api]\nbase_url = \"http://localhost:9000\"\ntimeout = 5\n\n[cart]\nremove_policy = \"local\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if got := GetString("api.base_url"); got != "http://localhost:9000" {
		t.Errorf("api.base_url: got %q", got)
	}
	if got := GetInt("api.timeout"); got != 5 {
		t.Errorf("api.timeout: got %d", got)
	}
	if got := GetString("cart.remove_policy"); got != "local" {
		t.Errorf("cart.remove_policy: got %q", got)
	}
	// untouched keys keep defaults
	if got := GetInt("api.retry_count"); got != 2 {
		t.Errorf("api.retry_count: got %d", got)
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("SOCIALCOMMERCE_API_BASE_URL", "http://env.example:8080")
	initTemp(t)

	if got := GetString("api.base_url"); got != "http://env.example:8080" {
		t.Errorf("api.base_url from env: got %q", got)
	}
}

func TestSetStringPersists(t *testing.T) {
	path := initTemp(t)

	if err := SetString("output.format", "json"); err != nil {
		t.Fatalf("SetString: %v", err)
	}

	if err := Init(path); err != nil {
		t.Fatalf("re-Init: %v", err)
	}
	if got := GetString("output.format"); got != "json" {
		t.Errorf("output.format after reload: got %q", got)
	}
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		base  string
		wsURL string
		want  string
	}{
		{"https://api.example.com", "", "wss://api.example.com/ws/websocket"},
		{"http://localhost:8080/", "", "ws://localhost:8080/ws/websocket"},
		{"http://localhost:8080", "ws://other:1/stomp", "ws://other:1/stomp"},
	}

	for _, tt := range tests {
		initTemp(t)
		Set("api.base_url", tt.base)
		Set("ws.url", tt.wsURL)
		if got := WebSocketURL(); got != tt.want {
			t.Errorf("WebSocketURL(%q, %q): got %q, want %q", tt.base, tt.wsURL, got, tt.want)
		}
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/logs/cli.log"); got != filepath.Join(home, "logs", "cli.log") {
		t.Errorf("expandPath: got %q", got)
	}
	if got := expandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("expandPath should not touch absolute paths, got %q", got)
	}
}
