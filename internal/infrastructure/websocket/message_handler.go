package websocket

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"chatmarket/pkg/errors"
	"chatmarket/pkg/logger"
)

// Frames clients may send besides ping.
const (
	CommandSendMessage = "send_message"
	CommandMarkRead    = "mark_read"
	CommandTyping      = "typing"
)

const (
	EventTyping = "typing"
	EventError  = "error"
)

// Command is a frame sent by a client.
type Command struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId"`
	Content        string `json:"content,omitempty"`
}

type TypingData struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	ExpiresAt      string `json:"expiresAt"`
}

type ErrorData struct {
	Command string `json:"command,omitempty"`
	Message string `json:"message"`
}

// CommandHandler carries out chat commands on behalf of a connected account.
type CommandHandler interface {
	SendText(ctx context.Context, userID, conversationID, content string) error
	MarkConversationRead(ctx context.Context, userID, conversationID string) error
	// TypingRecipient returns the other party of the conversation, or false
	// when userID does not take part in it.
	TypingRecipient(userID, conversationID string) (string, bool)
}

// SetCommandHandler enables chat commands over the socket. Without one only
// pings are answered.
func (m *Manager) SetCommandHandler(h CommandHandler) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.commands = h
}

func (m *Manager) commandHandler() CommandHandler {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.commands
}

// HandleClientMessage dispatches one frame read from client.
func (m *Manager) HandleClientMessage(ctx context.Context, client *Client, raw []byte) {
	var cmd Command
	if err := json.Unmarshal(raw, &cmd); err != nil {
		m.reply(client, EventError, ErrorData{Message: "Invalid message format"})
		return
	}

	if cmd.Type == EventPing {
		m.reply(client, EventPong, nil)
		return
	}

	h := m.commandHandler()
	if h == nil {
		m.reply(client, EventError, ErrorData{Command: cmd.Type, Message: "Unknown message type"})
		return
	}

	var err error
	switch cmd.Type {
	case CommandSendMessage:
		err = h.SendText(ctx, client.UserID, cmd.ConversationID, cmd.Content)

	case CommandMarkRead:
		err = h.MarkConversationRead(ctx, client.UserID, cmd.ConversationID)

	case CommandTyping:
		recipient, ok := h.TypingRecipient(client.UserID, cmd.ConversationID)
		if !ok {
			m.reply(client, EventError, ErrorData{Command: cmd.Type, Message: "Conversation not found"})
			return
		}
		m.Notify(recipient, EventTyping, TypingData{
			ConversationID: cmd.ConversationID,
			UserID:         client.UserID,
			ExpiresAt:      time.Now().UTC().Add(5 * time.Second).Format(time.RFC3339),
		})

	default:
		logger.Debug("Unknown websocket frame %q from %s", cmd.Type, client.UserID)
		m.reply(client, EventError, ErrorData{Command: cmd.Type, Message: "Unknown message type"})
		return
	}

	if err != nil {
		message := err.Error()
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			message = appErr.Message
		}
		m.reply(client, EventError, ErrorData{Command: cmd.Type, Message: message})
	}
}
