package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTripEscapesHeaders(t *testing.T) {
	f := NewFrame(CmdMessage,
		"destination", "/topic/conversation/r1",
		"note", "a:b\nc\\d",
	)
	f.Body = []byte(`{"content":"hi"}`)

	data := Encode(f)
	assert.Equal(t, byte(0), data[len(data)-1])
	assert.Contains(t, string(data), `note:a\cb\nc\\d`)
	assert.Contains(t, string(data), "content-length:16\n")

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, CmdMessage, got.Command)
	assert.Equal(t, "a:b\nc\\d", got.Get("note"))
	assert.Equal(t, `{"content":"hi"}`, string(got.Body))
}

func TestConnectHeadersAreNotEscaped(t *testing.T) {
	data := Encode(NewFrame(CmdConnect, "host", "chat:8080"))
	assert.Contains(t, string(data), "host:chat:8080\n")

	got, err := Decode([]byte("CONNECTED\nversion:1.2\nserver:a\\cb\n\n\x00"))
	require.NoError(t, err)
	assert.Equal(t, `a\cb`, got.Get("server"))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		command string
		body    string
		wantErr bool
	}{
		{name: "nul terminated", in: "MESSAGE\nsubscription:1\n\nhello\x00", command: "MESSAGE", body: "hello"},
		{name: "crlf lines", in: "MESSAGE\r\nsubscription:1\r\n\r\nhello\x00", command: "MESSAGE", body: "hello"},
		{name: "leading heart-beats", in: "\n\nRECEIPT\nreceipt-id:7\n\n\x00", command: "RECEIPT"},
		{name: "content-length allows nul in body", in: "MESSAGE\ncontent-length:3\n\na\x00b\x00", command: "MESSAGE", body: "a\x00b"},
		{name: "first header wins", in: "MESSAGE\nx:1\nx:2\n\n\x00", command: "MESSAGE"},
		{name: "missing nul", in: "MESSAGE\n\nhello", wantErr: true},
		{name: "bad content-length", in: "MESSAGE\ncontent-length:99\n\nhi\x00", wantErr: true},
		{name: "malformed header", in: "MESSAGE\nnocolon\n\n\x00", wantErr: true},
		{name: "bad escape", in: "MESSAGE\nk:\\t\n\n\x00", wantErr: true},
		{name: "no command line", in: "MESSAGE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.command, f.Command)
			assert.Equal(t, tt.body, string(f.Body))
		})
	}
}

func TestDecodeFirstHeaderWins(t *testing.T) {
	f, err := Decode([]byte("MESSAGE\nx:1\nx:2\n\n\x00"))
	require.NoError(t, err)
	assert.Equal(t, "1", f.Get("x"))
}

func TestDecodeHeartbeat(t *testing.T) {
	_, err := Decode([]byte("\n"))
	assert.ErrorIs(t, err, ErrHeartbeat)

	_, err = Decode([]byte("\r\n\r\n"))
	assert.ErrorIs(t, err, ErrHeartbeat)
}
