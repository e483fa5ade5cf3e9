package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/zfogg/socialcommerce/cli/pkg/api"
	"github.com/zfogg/socialcommerce/cli/pkg/chat"
	"github.com/zfogg/socialcommerce/cli/pkg/formatter"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
	"github.com/zfogg/socialcommerce/cli/pkg/output"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

// MessageService lists conversations and sends or watches messages
type MessageService struct {
	api     *api.Client
	sess    *session.Session
	chatCfg chat.Config
}

// NewMessageService creates a new message service. chatCfg is used by Watch.
func NewMessageService(c *api.Client, sess *session.Session, chatCfg chat.Config) *MessageService {
	return &MessageService{api: c, sess: sess, chatCfg: chatCfg}
}

// ListConversations displays the user's rooms with the other participant
func (ms *MessageService) ListConversations(ctx context.Context) error {
	if err := requireSession(ms.sess); err != nil {
		return err
	}

	rooms, err := ms.api.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch conversations: %w", err)
	}
	if len(rooms) == 0 {
		printf("No conversations yet.\n")
		return nil
	}

	names := make(map[string]string)
	rows := make([][]string, 0, len(rooms))
	for _, r := range rooms {
		peer := r.Peer(ms.sess.UserID())
		last := "-"
		if n := len(r.Messages); n > 0 {
			last = formatter.Truncate(r.Messages[n-1].Content, 40)
		}
		rows = append(rows, []string{
			r.RoomID,
			ms.displayName(ctx, names, peer),
			last,
			formatter.OrDash(formatter.TimeAgoString(r.UpdatedAt)),
		})
	}
	return output.PrintList(rooms, []string{"ROOM", "WITH", "LAST MESSAGE", "UPDATED"}, rows)
}

// displayName resolves a user ID to a name, falling back to the ID
func (ms *MessageService) displayName(ctx context.Context, cache map[string]string, userID string) string {
	if userID == "" {
		return "-"
	}
	if name, ok := cache[userID]; ok {
		return name
	}
	name := userID
	if u, err := ms.api.GetUser(ctx, userID); err != nil {
		logger.Debug("Failed to resolve participant", "user_id", userID, "error", err)
	} else if full := u.FullName(); full != "" {
		name = full
	}
	cache[userID] = name
	return name
}

// ViewThread displays a room's history
func (ms *MessageService) ViewThread(ctx context.Context, roomID string) error {
	if err := requireSession(ms.sess); err != nil {
		return err
	}

	thread, err := ms.loadThread(ctx, roomID)
	if err != nil {
		return err
	}
	if output.IsJSON() {
		return output.Print("", thread.Messages())
	}
	if thread.Len() == 0 {
		printf("No messages in this conversation.\n")
		return nil
	}
	for _, m := range thread.Messages() {
		ms.displayMessage(m)
	}
	return nil
}

func (ms *MessageService) loadThread(ctx context.Context, roomID string) (*chat.Thread, error) {
	history, err := ms.api.ListMessages(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return chat.NewThread(roomID, history), nil
}

// Send posts a text message to a room
func (ms *MessageService) Send(ctx context.Context, roomID, content string) error {
	if err := requireSession(ms.sess); err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("message cannot be empty")
	}

	msg, err := ms.api.SendMessage(ctx, roomID, content)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	if output.IsJSON() {
		return output.Print("", msg)
	}
	output.PrintSuccess("Message sent")
	return nil
}

// Watch prints a room's history, then live messages until ctx is done
func (ms *MessageService) Watch(ctx context.Context, roomID string) error {
	if err := requireSession(ms.sess); err != nil {
		return err
	}

	thread, err := ms.loadThread(ctx, roomID)
	if err != nil {
		return err
	}
	for _, m := range thread.Messages() {
		ms.displayMessage(m)
	}

	cfg := ms.chatCfg
	cfg.Token = ms.sess.Token()
	client := chat.NewClient(cfg)
	defer client.Close()

	if _, err := client.Subscribe(roomID, func(m api.Message) {
		if thread.Add(m) {
			ms.displayMessage(m)
		}
	}); err != nil {
		return err
	}

	output.PrintInfo("Watching %s, press Ctrl+C to stop", roomID)
	return client.Run(ctx)
}

func (ms *MessageService) displayMessage(m api.Message) {
	if output.IsJSON() {
		_ = output.Print("", m)
		return
	}

	who := formatter.OrDash(m.Sender)
	if m.SenderID != "" && m.SenderID == ms.sess.UserID() {
		who = "you"
	}
	formatter.Bold.Fprint(output.Writer(), who)
	if ago := formatter.TimeAgoString(m.CreatedAt); ago != "" {
		formatter.Faint.Fprintf(output.Writer(), " · %s", ago)
	}
	printf("\n  %s\n", m.Content)
}
