package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clierrors "github.com/zfogg/socialcommerce/cli/pkg/errors"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

func TestParseID(t *testing.T) {
	id, err := parseID("product", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc", "1.5"} {
		_, err := parseID("product", bad)
		var cliErr *clierrors.CLIError
		require.ErrorAs(t, err, &cliErr, bad)
		assert.Equal(t, clierrors.ErrorTypeValidation, cliErr.Type)
	}
}

func TestCommandTree(t *testing.T) {
	paths := [][]string{
		{"auth", "login"}, {"auth", "logout"}, {"auth", "status"}, {"auth", "signin-url"},
		{"cart", "show"}, {"cart", "add"}, {"cart", "set"}, {"cart", "remove"}, {"cart", "checkout"},
		{"products", "list"}, {"products", "mine"}, {"products", "upload"},
		{"feed"}, {"search"},
		{"post", "create"}, {"post", "like"}, {"post", "comment"},
		{"orders", "list"}, {"orders", "show"},
		{"profile", "me"}, {"profile", "show"}, {"profile", "follow"}, {"profile", "update"},
		{"message", "list"}, {"message", "thread"}, {"message", "send"}, {"message", "watch"},
		{"config", "show"}, {"config", "set"},
		{"version"}, {"completion"},
	}
	for _, path := range paths {
		found, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], found.Name(), path)
	}
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "SocialCommerce CLI v"+Version+"\n", buf.String())
}

func TestRunClosesLogOnFailure(t *testing.T) {
	closed := 0
	closeLog = func() error {
		closed++
		return nil
	}
	t.Cleanup(func() {
		closeLog = logger.Close
		_ = logger.Close()
	})

	cfg := filepath.Join(t.TempDir(), "config.toml")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"--config", cfg, "cart", "add", "not-a-number"})
	err := run(context.Background())
	var cliErr *clierrors.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, 1, closed)

	rootCmd.SetArgs([]string{"--config", cfg, "version"})
	require.NoError(t, run(context.Background()))
	assert.Equal(t, 2, closed)
}
