// Package chat receives live conversation messages over STOMP on a
// WebSocket.
package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/config"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/metrics"
)

// ErrClosed is returned once Close was called
var ErrClosed = errors.New("chat client closed")

// Config holds chat client configuration
type Config struct {
	URL               string
	Token             string
	ReconnectDelay    time.Duration
	ConnectTimeout    time.Duration
	HeartbeatInterval time.Duration
}

// ConfigFromSettings reads ws.* keys
func ConfigFromSettings(token string) Config {
	return Config{
		URL:               config.WebSocketURL(),
		Token:             token,
		ReconnectDelay:    time.Duration(config.GetInt("ws.reconnect_delay_ms")) * time.Millisecond,
		ConnectTimeout:    15 * time.Second,
		HeartbeatInterval: 10 * time.Second,
	}
}

// Topic is the broker destination for a room
func Topic(roomID string) string {
	return "/topic/conversation/" + roomID
}

// ConnectionState represents the state of the WebSocket connection
type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateClosed
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "disconnected"
	}
}

// ConnectionStats holds connection statistics
type ConnectionStats struct {
	FramesReceived int64
	FramesSent     int64
	ReconnectCount int
	LastError      string
	ConnectedAt    time.Time
	DisconnectedAt time.Time
}

// Handler receives messages for one room
type Handler func(api.Message)

type subscription struct {
	id      string
	roomID  string
	handler Handler
}

// Client is a STOMP subscriber that reconnects until Close. Handlers run
// on the read goroutine and are never called after Close returns; they
// must not call Close themselves.
type Client struct {
	cfg    Config
	dialer *websocket.Dialer

	state atomic.Int32

	mu     sync.Mutex
	conn   *websocket.Conn
	subs   map[string]*subscription
	cancel context.CancelFunc

	// writeMu serializes writes; gorilla allows one writer
	writeMu sync.Mutex

	// handlerMu is held while a handler runs and when closing
	handlerMu sync.Mutex
	closed    bool
	done      atomic.Bool

	statsLock sync.RWMutex
	stats     ConnectionStats
}

// NewClient creates a new chat client
func NewClient(cfg Config) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 15 * time.Second
	}
	c := &Client{
		cfg: cfg,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.ConnectTimeout,
		},
		subs: make(map[string]*subscription),
	}
	c.setState(StateDisconnected)
	return c
}

// Subscribe delivers messages for roomID to h. Subscriptions survive
// reconnects. The returned function unsubscribes.
func (c *Client) Subscribe(roomID string, h Handler) (func(), error) {
	if strings.TrimSpace(roomID) == "" {
		return nil, fmt.Errorf("room id is required")
	}
	if c.isClosed() {
		return nil, ErrClosed
	}

	sub := &subscription{id: uuid.NewString(), roomID: roomID, handler: h}

	c.mu.Lock()
	c.subs[sub.id] = sub
	conn := c.conn
	c.mu.Unlock()

	if conn != nil {
		if err := c.send(conn, subscribeFrame(sub)); err != nil {
			logger.Debug("Subscribe deferred to reconnect", "room_id", roomID, "error", err)
		}
	}

	return func() {
		c.mu.Lock()
		delete(c.subs, sub.id)
		conn := c.conn
		c.mu.Unlock()
		if conn != nil {
			_ = c.send(conn, NewFrame(CmdUnsubscribe, "id", sub.id))
		}
	}, nil
}

// Run connects and dispatches messages, reconnecting after
// ReconnectDelay, until ctx is done or Close is called.
func (c *Client) Run(ctx context.Context) error {
	if c.isClosed() {
		return ErrClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	if c.isClosed() {
		return c.finish()
	}

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			c.setState(StateReconnecting)
			c.recordReconnect()
			logger.Debug("Reconnecting chat", "attempt", attempt, "wait", c.cfg.ReconnectDelay)
			select {
			case <-ctx.Done():
				return c.finish()
			case <-time.After(c.cfg.ReconnectDelay):
			}
		}

		err := c.session(ctx)
		if ctx.Err() != nil || c.isClosed() {
			return c.finish()
		}
		if err != nil {
			c.recordError(err.Error())
			logger.Warn("Chat connection lost", "error", err)
		}
	}
}

func (c *Client) finish() error {
	if c.isClosed() {
		c.setState(StateClosed)
	} else {
		c.setState(StateDisconnected)
	}
	return nil
}

// session runs one connection until it fails or ctx ends
func (c *Client) session(ctx context.Context) error {
	c.setState(StateConnecting)

	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.isClosed() {
		c.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	c.conn = conn
	subs := make([]*subscription, 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	c.setState(StateConnected)
	c.recordConnected()
	logger.Debug("Chat connected", "url", c.cfg.URL, "subscriptions", len(subs))

	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()
		conn.Close()
		c.recordDisconnected()
	}()

	for _, s := range subs {
		if err := c.send(conn, subscribeFrame(s)); err != nil {
			return err
		}
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()
	if c.cfg.HeartbeatInterval > 0 {
		go c.heartbeatLoop(conn, stop)
	}

	return c.readLoop(conn)
}

func (c *Client) connect(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if c.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(dialCtx, c.cfg.URL, header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}

	host := "/"
	if u, err := url.Parse(c.cfg.URL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	heartBeat := "0,0"
	if c.cfg.HeartbeatInterval > 0 {
		heartBeat = fmt.Sprintf("%d,0", c.cfg.HeartbeatInterval.Milliseconds())
	}
	connectFrame := NewFrame(CmdConnect,
		"accept-version", "1.2",
		"host", host,
		"heart-beat", heartBeat,
	)
	if c.cfg.Token != "" {
		connectFrame.Headers = append(connectFrame.Headers, Header{Key: "Authorization", Value: "Bearer " + c.cfg.Token})
	}
	if err := c.send(conn, connectFrame); err != nil {
		conn.Close()
		return nil, err
	}

	_ = conn.SetReadDeadline(time.Now().Add(c.cfg.ConnectTimeout))
	for {
		f, err := c.read(conn)
		if errors.Is(err, ErrHeartbeat) {
			continue
		}
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("await CONNECTED: %w", err)
		}
		switch f.Command {
		case CmdConnected:
			_ = conn.SetReadDeadline(time.Time{})
			return conn, nil
		case CmdError:
			conn.Close()
			return nil, fmt.Errorf("broker refused connection: %s", errorText(f))
		default:
			logger.Debug("Ignoring frame before CONNECTED", "command", f.Command)
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		f, err := c.read(conn)
		if errors.Is(err, ErrHeartbeat) {
			continue
		}
		if err != nil {
			return err
		}

		switch f.Command {
		case CmdMessage:
			c.dispatch(f)
		case CmdError:
			return fmt.Errorf("broker error: %s", errorText(f))
		case CmdReceipt:
		default:
			logger.Debug("Ignoring STOMP frame", "command", f.Command)
		}
	}
}

func (c *Client) read(conn *websocket.Conn) (Frame, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return Frame{}, err
	}
	f, err := Decode(data)
	if errors.Is(err, ErrHeartbeat) {
		return Frame{}, err
	}
	if err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	c.recordFrameReceived(f.Command)
	return f, nil
}

func (c *Client) send(conn *websocket.Conn, f Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteMessage(websocket.TextMessage, Encode(f)); err != nil {
		return err
	}
	c.recordFrameSent(f.Command)
	return nil
}

func (c *Client) heartbeatLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := conn.WriteMessage(websocket.TextMessage, []byte("\n"))
			c.writeMu.Unlock()
			if err != nil {
				logger.Debug("Failed to send heart-beat", "error", err)
				return
			}
		}
	}
}

func (c *Client) dispatch(f Frame) {
	c.mu.Lock()
	sub, ok := c.subs[f.Get("subscription")]
	if !ok {
		dest := f.Get("destination")
		for _, s := range c.subs {
			if Topic(s.roomID) == dest {
				sub, ok = s, true
				break
			}
		}
	}
	c.mu.Unlock()
	if !ok {
		logger.Debug("Message for unknown subscription", "subscription", f.Get("subscription"))
		return
	}

	msg, ok := ParseMessage(f.Body, sub.roomID)
	if !ok {
		logger.Debug("Ignoring non-message body", "room_id", sub.roomID)
		return
	}

	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	if c.closed {
		return
	}
	sub.handler(msg)
}

// ParseMessage reads a broker body: JSON whose "content" field holds the
// message, or plain text content. Bodies that are not JSON are rejected.
func ParseMessage(body []byte, roomID string) (api.Message, bool) {
	root := json.Get(body)
	if root.ValueType() != json.ObjectValue {
		return api.Message{}, false
	}

	content := root.Get("content")
	switch content.ValueType() {
	case json.ObjectValue:
		var msg api.Message
		content.ToVal(&msg)
		if msg.RoomID == "" {
			msg.RoomID = roomID
		}
		return msg, true
	case json.StringValue:
		return api.Message{Content: content.ToString(), RoomID: roomID, Type: "TEXT"}, true
	default:
		return api.Message{}, false
	}
}

func subscribeFrame(s *subscription) Frame {
	return NewFrame(CmdSubscribe, "id", s.id, "destination", Topic(s.roomID), "ack", "auto")
}

func errorText(f Frame) string {
	if m := f.Get("message"); m != "" {
		return m
	}
	return strings.TrimSpace(string(f.Body))
}

// Close stops Run, disconnects, and guarantees no handler runs afterwards
func (c *Client) Close() error {
	c.handlerMu.Lock()
	if c.closed {
		c.handlerMu.Unlock()
		return nil
	}
	c.closed = true
	c.done.Store(true)
	c.handlerMu.Unlock()

	c.mu.Lock()
	conn := c.conn
	cancel := c.cancel
	c.mu.Unlock()

	if conn != nil {
		_ = c.send(conn, NewFrame(CmdDisconnect))
		conn.Close()
	}
	if cancel != nil {
		cancel()
	}
	c.setState(StateClosed)
	logger.Debug("Chat closed")
	return nil
}

func (c *Client) isClosed() bool {
	return c.done.Load()
}

// State returns the connection state
func (c *Client) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// IsConnected returns true if the connection is established
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// GetStats returns connection statistics
func (c *Client) GetStats() ConnectionStats {
	c.statsLock.RLock()
	defer c.statsLock.RUnlock()
	return c.stats
}

func (c *Client) setState(state ConnectionState) {
	c.state.Store(int32(state))
}

func (c *Client) recordFrameReceived(command string) {
	c.statsLock.Lock()
	c.stats.FramesReceived++
	c.statsLock.Unlock()
	metrics.Get().ChatFramesTotal.WithLabelValues(command, "in").Inc()
}

func (c *Client) recordFrameSent(command string) {
	c.statsLock.Lock()
	c.stats.FramesSent++
	c.statsLock.Unlock()
	metrics.Get().ChatFramesTotal.WithLabelValues(command, "out").Inc()
}

func (c *Client) recordReconnect() {
	c.statsLock.Lock()
	c.stats.ReconnectCount++
	c.statsLock.Unlock()
}

func (c *Client) recordError(errMsg string) {
	c.statsLock.Lock()
	c.stats.LastError = errMsg
	c.statsLock.Unlock()
}

func (c *Client) recordConnected() {
	c.statsLock.Lock()
	c.stats.ConnectedAt = time.Now()
	c.statsLock.Unlock()
}

func (c *Client) recordDisconnected() {
	c.statsLock.Lock()
	c.stats.DisconnectedAt = time.Now()
	c.statsLock.Unlock()
}
