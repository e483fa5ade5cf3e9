package chat

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// STOMP 1.2 commands used by the chat client
const (
	CmdConnect     = "CONNECT"
	CmdConnected   = "CONNECTED"
	CmdSubscribe   = "SUBSCRIBE"
	CmdUnsubscribe = "UNSUBSCRIBE"
	CmdMessage     = "MESSAGE"
	CmdError       = "ERROR"
	CmdDisconnect  = "DISCONNECT"
	CmdReceipt     = "RECEIPT"
	CmdSend        = "SEND"
)

// ErrHeartbeat is returned by Decode for a bare end-of-line heart-beat
var ErrHeartbeat = errors.New("heart-beat")

// Header is one frame header; order is kept and the first occurrence wins
type Header struct {
	Key   string
	Value string
}

// Frame is one STOMP frame
type Frame struct {
	Command string
	Headers []Header
	Body    []byte
}

// NewFrame builds a frame from alternating key/value pairs
func NewFrame(command string, kv ...string) Frame {
	f := Frame{Command: command}
	for i := 0; i+1 < len(kv); i += 2 {
		f.Headers = append(f.Headers, Header{Key: kv[i], Value: kv[i+1]})
	}
	return f
}

// Get returns the first value for key
func (f Frame) Get(key string) string {
	for _, h := range f.Headers {
		if h.Key == key {
			return h.Value
		}
	}
	return ""
}

// CONNECT and CONNECTED headers are not escaped
func escapes(command string) bool {
	return command != CmdConnect && command != CmdConnected
}

var headerEscaper = strings.NewReplacer(`\`, `\\`, "\r", `\r`, "\n", `\n`, ":", `\c`)

func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape in %q", s)
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		case 'c':
			b.WriteByte(':')
		default:
			return "", fmt.Errorf("invalid escape \\%c in %q", s[i], s)
		}
	}
	return b.String(), nil
}

// Encode serializes f, NUL-terminated
func Encode(f Frame) []byte {
	var buf bytes.Buffer
	buf.WriteString(f.Command)
	buf.WriteByte('\n')

	esc := escapes(f.Command)
	for _, h := range f.Headers {
		k, v := h.Key, h.Value
		if esc {
			k, v = headerEscaper.Replace(k), headerEscaper.Replace(v)
		}
		buf.WriteString(k)
		buf.WriteByte(':')
		buf.WriteString(v)
		buf.WriteByte('\n')
	}
	if len(f.Body) > 0 && f.Get("content-length") == "" {
		fmt.Fprintf(&buf, "content-length:%d\n", len(f.Body))
	}
	buf.WriteByte('\n')
	buf.Write(f.Body)
	buf.WriteByte(0)
	return buf.Bytes()
}

// Decode parses one frame. A message holding only end-of-lines is a
// heart-beat and yields ErrHeartbeat.
func Decode(data []byte) (Frame, error) {
	trimmed := bytes.TrimLeft(data, "\r\n")
	if len(trimmed) == 0 {
		return Frame{}, ErrHeartbeat
	}

	nl := bytes.IndexByte(trimmed, '\n')
	if nl < 0 {
		return Frame{}, fmt.Errorf("frame has no command line")
	}
	f := Frame{Command: strings.TrimSuffix(string(trimmed[:nl]), "\r")}
	if f.Command == "" {
		return Frame{}, fmt.Errorf("frame has empty command")
	}
	rest := trimmed[nl+1:]
	esc := escapes(f.Command)

	for {
		nl = bytes.IndexByte(rest, '\n')
		if nl < 0 {
			return Frame{}, fmt.Errorf("%s frame: unterminated headers", f.Command)
		}
		line := strings.TrimSuffix(string(rest[:nl]), "\r")
		rest = rest[nl+1:]
		if line == "" {
			break
		}

		k, v, ok := strings.Cut(line, ":")
		if !ok {
			return Frame{}, fmt.Errorf("%s frame: malformed header %q", f.Command, line)
		}
		if esc {
			var err error
			if k, err = unescape(k); err != nil {
				return Frame{}, err
			}
			if v, err = unescape(v); err != nil {
				return Frame{}, err
			}
		}
		f.Headers = append(f.Headers, Header{Key: k, Value: v})
	}

	if n := f.Get("content-length"); n != "" {
		var length int
		if _, err := fmt.Sscanf(n, "%d", &length); err != nil || length < 0 || length > len(rest) {
			return Frame{}, fmt.Errorf("%s frame: bad content-length %q", f.Command, n)
		}
		f.Body = rest[:length]
		return f, nil
	}

	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return Frame{}, fmt.Errorf("%s frame: missing NUL terminator", f.Command)
	}
	f.Body = rest[:end]
	return f, nil
}
