package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManager(t *testing.T) *Manager {
	t.Helper()

	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	m.Start(ctx)
	return m
}

// register blocks until the manager loop has stored every client.
func register(m *Manager, clients ...*Client) {
	for _, c := range clients {
		m.Register <- c
	}
	m.Register <- &Client{UserID: "__sync", Send: make(chan []byte)}
}

func TestManager_NotifyAllConnectionsOfUser(t *testing.T) {
	m := startManager(t)

	tab1 := &Client{UserID: "buyer-001", Send: make(chan []byte, 4)}
	tab2 := &Client{UserID: "buyer-001", Send: make(chan []byte, 4)}
	other := &Client{UserID: "seller-001", Send: make(chan []byte, 4)}
	register(m, tab1, tab2, other)

	m.Notify("buyer-001", EventNewMessage, map[string]string{"id": "msg-1"})

	for _, c := range []*Client{tab1, tab2} {
		select {
		case raw := <-c.Send:
			var ev Event
			require.NoError(t, json.Unmarshal(raw, &ev))
			assert.Equal(t, EventNewMessage, ev.Type)
		default:
			t.Fatal("expected a frame")
		}
	}
	assert.Empty(t, other.Send)
}

func TestManager_DropsSlowClient(t *testing.T) {
	m := startManager(t)

	slow := &Client{UserID: "buyer-001", Send: make(chan []byte)}
	register(m, slow)
	require.True(t, m.IsConnected("buyer-001"))

	m.Notify("buyer-001", EventNewMessage, nil)

	assert.False(t, m.IsConnected("buyer-001"))
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestManager_Unregister(t *testing.T) {
	m := startManager(t)

	c := &Client{UserID: "seller-001", Send: make(chan []byte, 1)}
	register(m, c)
	m.Unregister <- c
	register(m)

	assert.False(t, m.IsConnected("seller-001"))
}

func TestClient_PingPongOverConnection(t *testing.T) {
	m := startManager(t)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := &Client{UserID: "buyer-001", Conn: conn, Send: make(chan []byte, 8)}
		m.Register <- client
		go client.ReadPump(context.Background(), m)
		go client.WritePump()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return m.IsConnected("buyer-001") }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(Event{Type: EventPing}))
	var pong Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&pong))
	assert.Equal(t, EventPong, pong.Type)

	m.Notify("buyer-001", EventOrderUpdated, map[string]string{"orderId": "ORD-1"})
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventOrderUpdated, ev.Type)
}

func TestClient_ReadPumpExitsAfterManagerStops(t *testing.T) {
	m := NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)

	exited := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := &Client{UserID: "buyer-001", Conn: conn, Send: make(chan []byte, 8)}
		m.Register <- client
		go func() {
			client.ReadPump(context.Background(), m)
			close(exited)
		}()
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return m.IsConnected("buyer-001") }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatal("manager loop did not stop")
	}

	conn.Close()
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("read pump stuck after the manager stopped")
	}
	assert.False(t, m.IsConnected("buyer-001"))
}

type fakeCommands struct {
	sent      []string
	read      []string
	sendErr   error
	recipient string
}

func (f *fakeCommands) SendText(_ context.Context, userID, conversationID, content string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, userID+"|"+conversationID+"|"+content)
	return nil
}

func (f *fakeCommands) MarkConversationRead(_ context.Context, userID, conversationID string) error {
	f.read = append(f.read, userID+"|"+conversationID)
	return nil
}

func (f *fakeCommands) TypingRecipient(userID, conversationID string) (string, bool) {
	if conversationID != "conv-1" {
		return "", false
	}
	return f.recipient, true
}

func nextEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw := <-c.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	default:
		t.Fatal("expected a frame")
		return Event{}
	}
}

func TestHandleClientMessage_Commands(t *testing.T) {
	m := startManager(t)
	cmds := &fakeCommands{recipient: "seller-001"}
	m.SetCommandHandler(cmds)

	buyer := &Client{UserID: "buyer-001", Send: make(chan []byte, 4)}
	seller := &Client{UserID: "seller-001", Send: make(chan []byte, 4)}
	register(m, buyer, seller)
	ctx := context.Background()

	m.HandleClientMessage(ctx, buyer, []byte(`{"type":"send_message","conversationId":"conv-1","content":"hi"}`))
	m.HandleClientMessage(ctx, buyer, []byte(`{"type":"mark_read","conversationId":"conv-1"}`))
	assert.Equal(t, []string{"buyer-001|conv-1|hi"}, cmds.sent)
	assert.Equal(t, []string{"buyer-001|conv-1"}, cmds.read)
	assert.Empty(t, buyer.Send)

	m.HandleClientMessage(ctx, buyer, []byte(`{"type":"typing","conversationId":"conv-1"}`))
	ev := nextEvent(t, seller)
	assert.Equal(t, EventTyping, ev.Type)
	assert.Equal(t, "buyer-001", ev.Data.(map[string]interface{})["userId"])

	m.HandleClientMessage(ctx, buyer, []byte(`{"type":"typing","conversationId":"conv-9"}`))
	assert.Equal(t, EventError, nextEvent(t, buyer).Type)
}

func TestHandleClientMessage_Errors(t *testing.T) {
	m := startManager(t)
	c := &Client{UserID: "buyer-001", Send: make(chan []byte, 4)}
	register(m, c)
	ctx := context.Background()

	m.HandleClientMessage(ctx, c, []byte(`{"type":"send_message","conversationId":"conv-1","content":"hi"}`))
	assert.Equal(t, EventError, nextEvent(t, c).Type)

	m.SetCommandHandler(&fakeCommands{sendErr: assert.AnError})

	m.HandleClientMessage(ctx, c, []byte(`not json`))
	assert.Equal(t, EventError, nextEvent(t, c).Type)

	m.HandleClientMessage(ctx, c, []byte(`{"type":"dance"}`))
	ev := nextEvent(t, c)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, "dance", ev.Data.(map[string]interface{})["command"])

	m.HandleClientMessage(ctx, c, []byte(`{"type":"send_message","conversationId":"conv-1","content":"hi"}`))
	ev = nextEvent(t, c)
	assert.Equal(t, EventError, ev.Type)
	assert.Equal(t, assert.AnError.Error(), ev.Data.(map[string]interface{})["message"])
}
