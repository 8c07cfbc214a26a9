package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpsgame-go/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "round_started",
			data:      `{"round":1}`,
			expected:  "event: round_started\ndata: {\"round\":1}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "round_resolved",
			data:      "{\n  \"round\": 1\n}",
			expected:  "event: round_resolved\ndata: {\ndata:   \"round\": 1\ndata: }\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single line", "hello", []string{"hello"}},
		{"two lines", "line1\nline2", []string{"line1", "line2"}},
		{"trailing newline", "line1\n", []string{"line1"}},
		{"empty string", "", []string{""}},
		{"crlf line endings", "line1\r\nline2\r\n", []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}

func newRunningHub(t *testing.T) *Hub {
	hub := NewHub("GAME1", testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient(hub, transportSSE)
	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(Message{Event: "round_started", Data: []byte("x")})

	select {
	case msg := <-client.send:
		require.Equal(t, "round_started", msg.Event)
		require.Equal(t, "x", string(msg.Data))
	case <-time.After(time.Second):
		t.Fatal("client did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := newRunningHub(t)

	client := NewClient(hub, transportSSE)
	hub.Register(client)
	hub.Unregister(client)

	require.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
	_, ok := <-client.send
	require.False(t, ok, "send channel should be closed")
}

func TestHub_BroadcastToMultipleClients(t *testing.T) {
	hub := newRunningHub(t)

	clients := []*Client{
		NewClient(hub, transportSSE),
		NewClient(hub, transportWebSocket),
		NewClient(hub, transportSSE),
	}
	for _, c := range clients {
		hub.Register(c)
	}
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(Message{Event: "update", Data: []byte("data")})

	for i, client := range clients {
		select {
		case msg := <-client.send:
			require.Equal(t, "update", msg.Event)
		case <-time.After(time.Second):
			t.Fatalf("client %d did not receive message", i+1)
		}
	}
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub("GAME1", testutil.NopLogger())
	go hub.Run()

	client := NewClient(hub, transportSSE)
	hub.Register(client)
	hub.Close()
	hub.Close() // idempotent

	select {
	case _, ok := <-client.send:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client channel not closed")
	}
	require.False(t, hub.Register(NewClient(hub, transportSSE)))
}

func TestHubManager(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()

	hub1 := manager.GetOrCreateHub("ABC")
	hub2 := manager.GetOrCreateHub("ABC")
	require.Same(t, hub1, hub2)
	require.Same(t, hub1, manager.GetHub("ABC"))
	require.Nil(t, manager.GetHub("XYZ"))

	manager.GetOrCreateHub("XYZ")
	require.Equal(t, 2, manager.HubCount())

	client := NewClient(hub1, transportSSE)
	hub1.Register(client)
	require.Eventually(t, func() bool { return hub1.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	require.Equal(t, 1, manager.CleanupEmptyHubs())
	require.NotNil(t, manager.GetHub("ABC"))
	require.Nil(t, manager.GetHub("XYZ"))

	manager.RemoveHub("ABC")
	require.Equal(t, 0, manager.HubCount())
}
