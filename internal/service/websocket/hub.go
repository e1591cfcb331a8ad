package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"camrelay/internal/dto"
	"camrelay/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// ErrConnection marks a failed delivery to a single client.
var ErrConnection = errors.New("client connection error")

// Client is one open realtime session.
type Client struct {
	ID          string
	Conn        *websocket.Conn
	RemoteAddr  string
	ConnectedAt time.Time
}

// HubService owns the set of connected clients and fans events out to them.
// The registry is only mutated by Run; readers take the RWMutex.
type HubService struct {
	clients    map[string]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[string]*Client),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
// Broadcasts reach clients in the order Run receives them.
func (h *HubService) Run(ctx context.Context) {
	defer h.stop()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Client %s connected from %s. Total: %d", client.ID, client.RemoteAddr, total)

		case client := <-h.unregister:
			h.mutex.Lock()
			_, ok := h.clients[client.ID]
			delete(h.clients, client.ID)
			total := len(h.clients)
			h.mutex.Unlock()
			if ok {
				client.Conn.Close()
				h.logger.Info("Client %s disconnected. Total: %d", client.ID, total)
			}

		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

// deliver writes message to every client, dropping the ones that fail.
func (h *HubService) deliver(message []byte) {
	for id, client := range h.clients {
		client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logger.Error("Error sending message: %v", fmt.Errorf("%w: client %s: %v", ErrConnection, id, err))
			h.mutex.Lock()
			delete(h.clients, id)
			h.mutex.Unlock()
			client.Conn.Close()
		}
	}
}

// stop closes every remaining client and releases blocked callers.
func (h *HubService) stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mutex.Lock()
		for id, client := range h.clients {
			client.Conn.Close()
			delete(h.clients, id)
		}
		h.mutex.Unlock()
		h.logger.Info("Hub stopped")
	})
}

// Register adds conn to the hub and returns its client handle.
func (h *HubService) Register(conn *websocket.Conn) *Client {
	client := &Client{
		ID:          uuid.NewString(),
		Conn:        conn,
		RemoteAddr:  conn.RemoteAddr().String(),
		ConnectedAt: time.Now(),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
	}
	return client
}

func (h *HubService) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast sends ev to every connected client, including the originator.
func (h *HubService) Broadcast(ev dto.Event) error {
	message, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", ev.Event, err)
	}

	select {
	case h.broadcast <- message:
		return nil
	case <-h.done:
		return fmt.Errorf("hub stopped, %s event dropped", ev.Event)
	}
}

// BroadcastEvent builds an envelope for name/data and broadcasts it.
func (h *HubService) BroadcastEvent(name string, data interface{}) error {
	ev, err := dto.NewEvent(name, data)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", name, err)
	}
	return h.Broadcast(ev)
}

// Clients returns a snapshot of connected clients ordered by connect time.
func (h *HubService) Clients() []*Client {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].ConnectedAt.Before(clients[j].ConnectedAt)
	})
	return clients
}

func (h *HubService) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
