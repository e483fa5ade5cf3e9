package api

import (
	"context"
	"fmt"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/zfogg/socialcommerce/cli/pkg/logger"
)

// ListConversations returns every room the caller takes part in
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	logger.Debug("Fetching conversations")

	resp, err := c.http.R().
		SetContext(ctx).
		Get("/messages/user")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var rooms []Conversation
	if err := json.Unmarshal(resp.Body(), &rooms); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	return rooms, nil
}

// GetConversation returns a room with its message history
func (c *Client) GetConversation(ctx context.Context, roomID string) (*Conversation, error) {
	logger.Debug("Fetching conversation", "room_id", roomID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("roomId", roomID).
		Get("/messages/room/{roomId}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var room Conversation
	if err := json.Unmarshal(resp.Body(), &room); err != nil {
		return nil, fmt.Errorf("decode conversation: %w", err)
	}
	return &room, nil
}

// ListMessages returns a room's messages
func (c *Client) ListMessages(ctx context.Context, roomID string) ([]Message, error) {
	logger.Debug("Fetching messages", "room_id", roomID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("roomId", roomID).
		Get("/messages/rooms/{roomId}/messages")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var messages []Message
	if err := json.Unmarshal(resp.Body(), &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, nil
}

// SendMessage posts a text message to a room
func (c *Client) SendMessage(ctx context.Context, roomID, content string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}

	logger.Debug("Sending message", "room_id", roomID)

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("roomId", roomID).
		SetMultipartFormData(map[string]string{
			"content":     content,
			"messageType": "TEXT",
		}).
		Post("/messages/send/{roomId}")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(resp.Body(), &msg); err != nil {
		return nil, fmt.Errorf("decode sent message: %w", err)
	}
	return &msg, nil
}
