package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ledger event types pushed to connected dashboards
const (
	EventBookingCreated    = "booking_created"
	EventPaymentRecorded   = "payment_recorded"
	EventPaymentDeleted    = "payment_deleted"
	EventCommissionCreated = "commission_created"
)

// Event represents a message sent over WebSocket
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	UserID  string      `json:"userID,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	UserID  primitive.ObjectID
	IsAdmin bool
	Conn    *websocket.Conn

	// writeMu serializes writes: gorilla/websocket allows at most one
	// concurrent writer per connection
	writeMu sync.Mutex
}

func (c *Client) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

// Hub maintains the set of active clients and broadcasts ledger events
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends an event to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, event Event) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.writeJSON(event)
}

// BroadcastToAdmins pushes an event to every connected admin dashboard
func (h *Hub) BroadcastToAdmins(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		if client.IsAdmin {
			client.writeJSON(event)
		}
	}
}

// NotifyBookingCreated announces a new asset purchase to admin dashboards
func (h *Hub) NotifyBookingCreated(bookingData interface{}) {
	h.BroadcastToAdmins(Event{
		Type:    EventBookingCreated,
		Message: "New asset purchase booked",
		Data:    bookingData,
	})
}

// NotifyPaymentRecorded announces a recorded payment to admin dashboards
func (h *Hub) NotifyPaymentRecorded(paymentData interface{}) {
	h.BroadcastToAdmins(Event{
		Type:    EventPaymentRecorded,
		Message: "Payment recorded",
		Data:    paymentData,
	})
}

// NotifyPaymentDeleted announces a deleted payment to admin dashboards
func (h *Hub) NotifyPaymentDeleted(paymentData interface{}) {
	h.BroadcastToAdmins(Event{
		Type:    EventPaymentDeleted,
		Message: "Payment deleted",
		Data:    paymentData,
	})
}

// NotifyCommissionCreated announces a referral commission to admin dashboards
func (h *Hub) NotifyCommissionCreated(commissionData interface{}) {
	h.BroadcastToAdmins(Event{
		Type:    EventCommissionCreated,
		Message: "Referral commission recorded",
		Data:    commissionData,
	})
}
