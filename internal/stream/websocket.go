package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/rpsgame-go/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed between pongs before the connection is dropped
	pongWait = 60 * time.Second

	// Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size
	maxMessageSize = 1024
)

// ChoiceFrame is what a WebSocket client sends to submit a choice
type ChoiceFrame struct {
	Slot   model.PlayerSlot `json:"slot"`
	Choice string           `json:"choice"`
}

// ChoiceHandler applies a submitted choice to the game
type ChoiceHandler func(ctx context.Context, frame ChoiceFrame) error

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Sessions are bound by token, not origin
		return true
	},
}

// ServeWS upgrades the connection, streams hub events to it and passes
// inbound choice frames to handle. Rejections are sent back to this
// client only, as error frames.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, handle ChoiceHandler, logger *slog.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := NewClient(hub, transportWebSocket)
	if !hub.Register(client) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "stream closed"))
		_ = conn.Close()
		return
	}

	// Replies from the read side go through here so only writePump writes
	replies := make(chan []byte, 16)
	done := make(chan struct{})

	go writePump(conn, client, replies, done)
	readPump(r.Context(), conn, handle, replies, logger)

	close(done)
	hub.Unregister(client)
}

func readPump(ctx context.Context, conn *websocket.Conn, handle ChoiceHandler, replies chan<- []byte, logger *slog.Logger) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read error", slog.Any("error", err))
			}
			return
		}

		var frame ChoiceFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			reply(replies, errorFrame(0, "malformed frame"))
			continue
		}
		if err := handle(ctx, frame); err != nil {
			reply(replies, errorFrame(frame.Slot, err.Error()))
		}
	}
}

func writePump(conn *websocket.Conn, client *Client, replies <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message.Data); err != nil {
				return
			}

		case data := <-replies:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}

func reply(replies chan<- []byte, data []byte) {
	select {
	case replies <- data:
	default:
	}
}

func errorFrame(slot model.PlayerSlot, message string) []byte {
	data, _ := json.Marshal(struct {
		Type    string    `json:"type"`
		Payload errorWire `json:"payload"`
	}{
		Type:    "error",
		Payload: errorWire{Slot: slot, Message: message},
	})
	return data
}
