package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub) *Client {
	return &Client{
		ID:       uuid.New(),
		Email:    "service@boq-analysis",
		Hub:      hub,
		Send:     make(chan WebSocketMessage, 8),
		Projects: make(map[string]bool),
	}
}

func registerAndWait(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	hub.register <- client
	require.Eventually(t, func() bool {
		return hub.GetClientCount() > 0
	}, time.Second, 5*time.Millisecond)
}

func TestHubRegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub)
	registerAndWait(t, hub, client)
	assert.Equal(t, 1, hub.GetClientCount())

	hub.unregister <- client
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestBroadcastToProjectReachesWatchersOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	projectID := uuid.New().String()

	watcher := newTestClient(hub)
	watcher.WatchProject(projectID)
	registerAndWait(t, hub, watcher)

	bystander := newTestClient(hub)
	hub.register <- bystander
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 2
	}, time.Second, 5*time.Millisecond)

	message := WebSocketMessage{
		Type:      MessageTypeProcessingComplete,
		Payload:   map[string]interface{}{"total_items": 42},
		Timestamp: time.Now(),
		ProjectID: projectID,
	}
	hub.BroadcastToProject(projectID, message)

	select {
	case received := <-watcher.Send:
		assert.Equal(t, MessageTypeProcessingComplete, received.Type)
		assert.Equal(t, projectID, received.ProjectID)
	case <-time.After(time.Second):
		t.Fatal("watcher never received the project broadcast")
	}

	select {
	case unexpected := <-bystander.Send:
		t.Fatalf("bystander received %s for a project it never watched", unexpected.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub)
	registerAndWait(t, hub, first)

	second := newTestClient(hub)
	hub.register <- second
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 2
	}, time.Second, 5*time.Millisecond)

	hub.Broadcast(WebSocketMessage{Type: MessageTypeInsightsReady, Timestamp: time.Now()})

	for _, client := range []*Client{first, second} {
		select {
		case received := <-client.Send:
			assert.Equal(t, MessageTypeInsightsReady, received.Type)
		case <-time.After(time.Second):
			t.Fatal("client never received the broadcast")
		}
	}
}

func TestWatchAndUnwatchProject(t *testing.T) {
	client := &Client{ID: uuid.New(), Send: make(chan WebSocketMessage, 1)}
	projectID := uuid.New().String()

	assert.False(t, client.IsWatchingProject(projectID))

	client.WatchProject(projectID)
	assert.True(t, client.IsWatchingProject(projectID))

	client.UnwatchProject(projectID)
	assert.False(t, client.IsWatchingProject(projectID))
}
