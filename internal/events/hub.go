package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oseayemenre/bookstore/internal/logger"
)

var ErrHubBusy = errors.New("event hub is busy")

const defaultWriteWait = 5 * time.Second

// Hub broadcasts events to connected admin websocket clients. Run owns the
// client set and is the only writer to the connections.
type Hub struct {
	clients    map[*websocket.Conn]bool
	connect    chan *websocket.Conn
	disconnect chan *websocket.Conn
	broadcast  chan Event
	writeWait  time.Duration
	logger     logger.Logger
}

func NewHub(logger logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		connect:    make(chan *websocket.Conn),
		disconnect: make(chan *websocket.Conn),
		broadcast:  make(chan Event, 64),
		writeWait:  defaultWriteWait,
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			return
		case conn := <-h.connect:
			h.clients[conn] = true
		case conn := <-h.disconnect:
			if h.clients[conn] {
				conn.Close()
				delete(h.clients, conn)
			}
		case event := <-h.broadcast:
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(h.writeWait))

				if err := conn.WriteJSON(event); err != nil {
					h.logger.Warn(fmt.Sprintf("error writing to ws client: %v", err), "service", "hub")
					conn.Close()
					delete(h.clients, conn)
				}
			}
		}
	}
}

// Attach registers conn and blocks until the client goes away. Incoming
// messages are discarded.
func (h *Hub) Attach(ctx context.Context, conn *websocket.Conn) {
	select {
	case h.connect <- conn:
	case <-ctx.Done():
		conn.Close()
		return
	}

	defer func() {
		select {
		case h.disconnect <- conn:
		case <-ctx.Done():
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish queues the event for broadcast without blocking the caller.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		return ErrHubBusy
	}
}
