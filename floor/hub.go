package floor

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	defaultWriteWait  = 10 * time.Second
	defaultSendBuffer = 64
)

// floorClient owns one connection; only its writer goroutine writes to conn.
type floorClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the websocket clients of the floor display (host stand, managers)
// and broadcasts every event to them. Publish never blocks on a slow client:
// a client whose queue is full, or whose write misses WriteWait, is dropped.
type Hub struct {
	// WriteWait and SendBuffer apply to clients registered afterwards.
	WriteWait  time.Duration
	SendBuffer int

	clients map[*websocket.Conn]*floorClient
	mutex   sync.Mutex
	log     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		WriteWait:  defaultWriteWait,
		SendBuffer: defaultSendBuffer,
		clients:    make(map[*websocket.Conn]*floorClient),
		log:        log,
	}
}

// Register adds a connection to the broadcast set and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		return
	}
	client := &floorClient{conn: conn, send: make(chan []byte, h.SendBuffer)}
	h.clients[conn] = client
	go h.writeLoop(client, h.WriteWait)
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(conn)
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish queues the event for every client.
func (h *Hub) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.log.Debugf("Broadcasting %s to %d clients", event.Type, len(h.clients))
	for conn, client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.log.Warnf("Dropping floor client %s: send queue full", conn.RemoteAddr())
			h.drop(conn)
		}
	}
	return nil
}

// drop must be called with the mutex held.
func (h *Hub) drop(conn *websocket.Conn) {
	client, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	close(client.send)
	conn.Close()
}

func (h *Hub) writeLoop(client *floorClient, writeWait time.Duration) {
	for data := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warnf("Dropping floor client %s: %v", client.conn.RemoteAddr(), err)
			h.Unregister(client.conn)
			return
		}
	}
}
