package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/loopwear/marketplace-app/backend/internal/core/ports"
	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

var _ ports.OrderEventPublisher = (*Manager)(nil)

// wsClient pairs a connection with its write lock. gorilla/websocket allows
// at most one concurrent writer per connection, so every write goes through
// writeJSON.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Manager fans order lifecycle events out to websocket subscribers.
type Manager struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu sync.RWMutex
	// subscribers by order id, then by connection id
	subscribers map[int64]map[string]*wsClient
}

func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		subscribers: make(map[int64]map[string]*wsClient),
	}
}

func (m *Manager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return m.upgrader.Upgrade(w, r, nil)
}

// Subscribe registers a connection for an order and returns the id to
// unsubscribe with.
func (m *Manager) Subscribe(orderID int64, conn *websocket.Conn) string {
	clientID := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subscribers[orderID] == nil {
		m.subscribers[orderID] = make(map[string]*wsClient)
	}
	m.subscribers[orderID][clientID] = &wsClient{conn: conn}

	return clientID
}

func (m *Manager) Unsubscribe(orderID int64, clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.subscribers[orderID], clientID)
	if len(m.subscribers[orderID]) == 0 {
		delete(m.subscribers, orderID)
	}
}

// PublishOrderEvent delivers the event to every subscriber of the order.
// Dead connections are dropped, delivery is best effort.
func (m *Manager) PublishOrderEvent(event entities.OrderEvent) {
	m.mu.RLock()
	clients := make(map[string]*wsClient, len(m.subscribers[event.OrderID]))
	for clientID, client := range m.subscribers[event.OrderID] {
		clients[clientID] = client
	}
	m.mu.RUnlock()

	for clientID, client := range clients {
		if err := client.writeJSON(event); err != nil {
			m.logger.Error("Failed to publish order event",
				"orderID", event.OrderID, "clientID", clientID, "error", err)
			m.Unsubscribe(event.OrderID, clientID)
			client.conn.Close()
		}
	}
}

type WebSocketHandler struct {
	logger           *slog.Logger
	orderService     OrderService
	websocketManager *Manager
}

func NewWebSocketHandler(
	logger *slog.Logger,
	orderService OrderService,
	websocketManager *Manager,
) *WebSocketHandler {
	return &WebSocketHandler{
		logger:           logger,
		orderService:     orderService,
		websocketManager: websocketManager,
	}
}

func (h *WebSocketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/orders/{orderId:[0-9]+}", h.HandleConnection)
}

func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(mux.Vars(r)["orderId"], 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if _, err = h.orderService.GetOrder(r.Context(), orderID); err != nil {
		h.writeLookupError(w, orderID, err)
		return
	}

	conn, err := h.websocketManager.Upgrade(w, r)
	if err != nil {
		h.logger.Error("Error upgrading connection", "error", err)
		return
	}

	clientID := h.websocketManager.Subscribe(orderID, conn)
	h.logger.Info("New WebSocket connection", "orderID", orderID, "clientID", clientID)

	// Keep connection open and handle disconnection
	for {
		_, _, readErr := conn.ReadMessage()
		if readErr != nil {
			h.logger.Info("WebSocket connection closed", "orderID", orderID, "error", readErr)
			h.websocketManager.Unsubscribe(orderID, clientID)
			conn.Close()
			break
		}
	}
}

func (h *WebSocketHandler) writeLookupError(w http.ResponseWriter, orderID int64, err error) {
	h.logger.Error("Order lookup failed", "orderID", orderID, "error", err)
	http.Error(w, "Order not found", http.StatusNotFound)
}
