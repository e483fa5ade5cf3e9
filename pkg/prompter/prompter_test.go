package prompter

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("  hello  \nsecond\n"), &out)

	s, err := p.String("Name: ")
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, "Name: ", out.String())

	s, err = p.String("Again: ")
	require.NoError(t, err)
	assert.Equal(t, "second", s)

	_, err = p.String("More: ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestStringWithoutTrailingNewline(t *testing.T) {
	p := New(strings.NewReader("token"), io.Discard)
	s, err := p.String("> ")
	require.NoError(t, err)
	assert.Equal(t, "token", s)
}

func TestRequired(t *testing.T) {
	p := New(strings.NewReader("\n"), io.Discard)
	_, err := p.Required("Caption: ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestSecretFromPipe(t *testing.T) {
	p := New(strings.NewReader("eyJ.abc\n"), io.Discard)
	s, err := p.Secret("Token: ")
	require.NoError(t, err)
	assert.Equal(t, "eyJ.abc", s)
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "maybe\n": false, "\n": false}
	for in, want := range tests {
		p := New(strings.NewReader(in), io.Discard)
		got, err := p.Confirm("Checkout?")
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
}
