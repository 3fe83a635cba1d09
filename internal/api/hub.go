package api

import (
	"sync"

	"github.com/PatxiBS/ud2-storageFork/internal/models"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub fans change events out to websocket clients.
type Hub struct {
	clients  map[*websocket.Conn]bool
	clientMu sync.RWMutex
	events   chan models.ChangeEvent
	closedMu sync.RWMutex
	closed   bool
}

func NewHub(bufferSize int) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		events:  make(chan models.ChangeEvent, bufferSize),
	}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.clientMu.Lock()
	h.clients[conn] = true
	total := len(h.clients)
	h.clientMu.Unlock()

	logrus.Infof("Client connected via WebSocket. Total clients: %d", total)
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.clientMu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	total := len(h.clients)
	h.clientMu.Unlock()

	if ok {
		conn.Close()
		logrus.Infof("Client disconnected. Total clients: %d", total)
	}
}

func (h *Hub) ClientCount() int {
	h.clientMu.RLock()
	defer h.clientMu.RUnlock()
	return len(h.clients)
}

// Publish never blocks; events are dropped when the buffer is full.
func (h *Hub) Publish(event models.ChangeEvent) {
	h.closedMu.RLock()
	defer h.closedMu.RUnlock()
	if h.closed {
		return
	}
	select {
	case h.events <- event:
	default:
		logrus.Warn("Event channel full, dropping event")
	}
}

// Run broadcasts queued events until Close is called.
func (h *Hub) Run() {
	for event := range h.events {
		h.broadcast(event)
	}
}

func (h *Hub) broadcast(event models.ChangeEvent) {
	h.clientMu.RLock()
	var failed []*websocket.Conn
	for client := range h.clients {
		if err := client.WriteJSON(event); err != nil {
			logrus.WithError(err).Warn("Error sending event to client")
			failed = append(failed, client)
		}
	}
	h.clientMu.RUnlock()

	for _, client := range failed {
		h.Remove(client)
	}
}

// Close stops Run and disconnects every client.
func (h *Hub) Close() {
	h.closedMu.Lock()
	if h.closed {
		h.closedMu.Unlock()
		return
	}
	h.closed = true
	close(h.events)
	h.closedMu.Unlock()

	h.clientMu.Lock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
	h.clientMu.Unlock()
}
