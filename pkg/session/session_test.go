package session

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

func TestLifecycle(t *testing.T) {
	s := New("")
	assert.Equal(t, StateLoggedOut, s.State())
	assert.ErrorIs(t, s.Err(), ErrNotLoggedIn)
	assert.Empty(t, s.Token())

	require.NoError(t, s.Login("tok-123"))
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, "tok-123", s.Token())
	assert.NoError(t, s.Err())

	require.NoError(t, s.Identify("user-1", true))
	assert.Equal(t, "user-1", s.UserID())
	assert.True(t, s.Activated())

	assert.True(t, s.Expire())
	assert.Equal(t, StateExpired, s.State())
	assert.Empty(t, s.Token(), "expired sessions must not hand out the token")
	assert.ErrorIs(t, s.Err(), ErrExpired)
	assert.False(t, s.Expire(), "second expire is a no-op")

	require.NoError(t, s.Logout())
	assert.Equal(t, StateLoggedOut, s.State())
	assert.Empty(t, s.UserID())
}

func TestLoginRejectsBlankToken(t *testing.T) {
	s := New("")
	assert.ErrorIs(t, s.Login("   "), ErrMissingToken)
	assert.Equal(t, StateLoggedOut, s.State())
}

func TestIdentifyRequiresActiveSession(t *testing.T) {
	s := New("")
	assert.ErrorIs(t, s.Identify("u", true), ErrNotLoggedIn)
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")

	s := New(path)
	require.NoError(t, s.Login("persisted-token"))
	require.NoError(t, s.Identify("42", false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StateActive, loaded.State())
	assert.Equal(t, "persisted-token", loaded.Token())
	assert.Equal(t, "42", loaded.UserID())
	assert.False(t, loaded.Activated())

	loaded.Expire()
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StateExpired, reloaded.State())

	require.NoError(t, reloaded.Logout())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, StateLoggedOut, s.State())
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConcurrentExpire(t *testing.T) {
	s := New("")
	require.NoError(t, s.Login("tok"))

	var wg sync.WaitGroup
	results := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Expire()
		}()
	}
	wg.Wait()
	close(results)

	transitions := 0
	for r := range results {
		if r {
			transitions++
		}
	}
	assert.Equal(t, 1, transitions, "exactly one caller observes the active->expired transition")
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"full callback", "https://shop.example/auth/callback?continue=abc.def.ghi", "abc.def.ghi", false},
		{"trailing slash", "http://localhost:5173/auth/callback/?continue=tok", "tok", false},
		{"escaped token", "https://x/auth/callback?continue=a%2Bb", "a+b", false},
		{"missing param", "https://x/auth/callback?foo=bar", "", true},
		{"empty param", "https://x/auth/callback?continue=", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCallback(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignInURL(t *testing.T) {
	assert.Equal(t, "https://api.example/signin", SignInURL("https://api.example/"))
	assert.Equal(t, "http://localhost:8080/signin", SignInURL("http://localhost:8080"))
}

func TestExpireLogsSaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	s := New(path)
	require.NoError(t, s.Login("tok"))

	// a directory where the file was makes the write fail
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0700))

	var buf bytes.Buffer
	logger.SetOutput(&buf, log.WarnLevel)

	assert.True(t, s.Expire())
	assert.Equal(t, StateExpired, s.State())
	assert.Contains(t, buf.String(), "Failed to persist expired session")
}
