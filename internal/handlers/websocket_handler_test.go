package handlers

import (
	"context"
	"strings"
	"testing"
	"time"

	"tutsin-digital/internal/cache"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/services"
	"tutsin-digital/internal/storage"
)

// Notify runs on the request path; it must return even when nothing drains
// the hub's event buffer (websocket disabled, or the hub backlogged).
func TestNotifyDoesNotBlockWithoutHub(t *testing.T) {
	store := storage.NewMemoryStorage()
	cacheMgr := cache.GetCacheManager()
	notifier := services.NewNotificationService(store, cacheMgr)
	NewWebSocketHandler(services.NewAuthService(store), cacheMgr)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			notifier.Notify(context.Background(), "client-1", "Task updated", "A task changed status", "")
		}
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Notify blocked once the hub event buffer filled")
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	cl := &wsClient{send: make(chan []byte, 1)}

	if !cl.enqueue([]byte("first")) {
		t.Fatal("expected the first payload to be accepted")
	}
	if cl.enqueue([]byte("second")) {
		t.Fatal("a full buffer should drop the payload, not block")
	}
}

func TestHubDeliversToMatchingSocketOnly(t *testing.T) {
	store := storage.NewMemoryStorage()
	h := NewWebSocketHandler(services.NewAuthService(store), cache.GetCacheManager())
	go h.RunHub()

	owner := &wsClient{userID: "client-1", send: make(chan []byte, 4)}
	other := &wsClient{userID: "client-2", send: make(chan []byte, 4)}
	h.register <- owner
	h.register <- other

	h.events <- services.NotificationEvent{
		UserID:       "client-1",
		Notification: models.Notification{UserID: "client-1", Title: "Milestone completed"},
	}

	select {
	case payload := <-owner.send:
		if !strings.Contains(string(payload), "Milestone completed") {
			t.Fatalf("unexpected payload %s", payload)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a delivery to the owning client's socket")
	}

	select {
	case payload := <-other.send:
		t.Fatalf("delivered to the wrong socket: %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

// A socket whose buffer is full gets dropped instead of stalling deliveries
// to everyone else.
func TestHubDropsSlowSocket(t *testing.T) {
	store := storage.NewMemoryStorage()
	h := NewWebSocketHandler(services.NewAuthService(store), cache.GetCacheManager())
	go h.RunHub()

	slow := &wsClient{userID: "client-1", send: make(chan []byte, 1)}
	slow.send <- []byte("backlog")
	sentinel := &wsClient{userID: "client-2", send: make(chan []byte, 1)}
	h.register <- slow
	h.register <- sentinel

	h.events <- services.NotificationEvent{
		UserID:       "client-1",
		Notification: models.Notification{UserID: "client-1", Title: "First"},
	}
	h.events <- services.NotificationEvent{
		UserID:       "client-2",
		Notification: models.Notification{UserID: "client-2", Title: "Second"},
	}

	// Once the second event lands, the first has been fully processed.
	select {
	case <-sentinel.send:
	case <-time.After(time.Second):
		t.Fatal("hub never processed the events")
	}

	if payload, ok := <-slow.send; !ok || string(payload) != "backlog" {
		t.Fatalf("expected the undrained backlog payload, got %q (open=%v)", payload, ok)
	}
	if _, ok := <-slow.send; ok {
		t.Fatal("expected the slow socket's send channel to be closed")
	}
}
