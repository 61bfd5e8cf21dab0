package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishOrderEventConcurrentToOneSubscriber(t *testing.T) {
	manager := NewManager(testLogger())

	subscribed := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := manager.Upgrade(w, r)
		if err != nil {
			t.Error(err)
			return
		}
		manager.Subscribe(42, conn)
		close(subscribed)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-subscribed:
	case <-time.After(5 * time.Second):
		t.Fatal("subscription never registered")
	}

	// Two committed transitions can publish back to back before the first
	// write finishes, so writes to one connection must be serialized
	const publishes = 16

	var wg sync.WaitGroup
	for i := 0; i < publishes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			manager.PublishOrderEvent(entities.OrderEvent{
				OrderID: 42,
				Status:  entities.OrderPickedUp,
				At:      time.Now(),
			})
		}()
	}
	wg.Wait()

	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))
	for i := 0; i < publishes; i++ {
		var event entities.OrderEvent
		require.NoError(t, client.ReadJSON(&event))
		require.Equal(t, int64(42), event.OrderID)
		require.Equal(t, entities.OrderPickedUp, event.Status)
	}
}

func TestPublishOrderEventSkipsOtherOrders(t *testing.T) {
	manager := NewManager(testLogger())

	subscribed := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := manager.Upgrade(w, r)
		if err != nil {
			t.Error(err)
			return
		}
		manager.Subscribe(42, conn)
		close(subscribed)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case <-subscribed:
	case <-time.After(5 * time.Second):
		t.Fatal("subscription never registered")
	}

	manager.PublishOrderEvent(entities.OrderEvent{OrderID: 7, Status: entities.OrderCancelled, At: time.Now()})
	manager.PublishOrderEvent(entities.OrderEvent{OrderID: 42, Status: entities.OrderCompleted, At: time.Now()})

	require.NoError(t, client.SetReadDeadline(time.Now().Add(5*time.Second)))

	var event entities.OrderEvent
	require.NoError(t, client.ReadJSON(&event))
	require.Equal(t, int64(42), event.OrderID)
	require.Equal(t, entities.OrderCompleted, event.Status)
}
