package stream

import (
	"time"
)

const (
	// Buffer size for outgoing messages
	sendBufferSize = 256

	transportSSE       = "sse"
	transportWebSocket = "websocket"
)

// Client is one subscriber attached to a hub
type Client struct {
	hub         *Hub
	transport   string
	send        chan Message
	connectedAt time.Time
}

// NewClient creates a new client for the given transport
func NewClient(hub *Hub, transport string) *Client {
	return &Client{
		hub:         hub,
		transport:   transport,
		send:        make(chan Message, sendBufferSize),
		connectedAt: time.Now(),
	}
}
