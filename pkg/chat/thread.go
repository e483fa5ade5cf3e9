package chat

import (
	"sync"

	"github.com/zfogg/socialcommerce/cli/pkg/api"
)

// Thread is the message list of one room: history first, then live
// messages in arrival order.
type Thread struct {
	roomID string

	mu       sync.Mutex
	messages []api.Message
	seen     map[string]struct{}
}

// NewThread seeds a thread with history
func NewThread(roomID string, history []api.Message) *Thread {
	t := &Thread{roomID: roomID, seen: make(map[string]struct{})}
	for _, m := range history {
		t.Add(m)
	}
	return t
}

// RoomID returns the room this thread follows
func (t *Thread) RoomID() string {
	return t.roomID
}

// Add appends m unless it belongs to another room or was already added
func (t *Thread) Add(m api.Message) bool {
	if m.RoomID != "" && m.RoomID != t.roomID {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if m.MessageID != "" {
		if _, dup := t.seen[m.MessageID]; dup {
			return false
		}
		t.seen[m.MessageID] = struct{}{}
	}
	t.messages = append(t.messages, m)
	return true
}

// Messages returns a copy of the thread
func (t *Thread) Messages() []api.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]api.Message(nil), t.messages...)
}

// Len returns the number of messages
func (t *Thread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}
