package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/dom/nonprofit-site/internal/domain"
)

const broadcastBuffer = 64

// Hub fans resource changes out to connected admin clients.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	stopOnce   sync.Once
	done       chan struct{} // closed when Run() exits
	stopped    bool
	seq        int
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.stopped {
				h.mu.Unlock()
				client.Close()
				continue
			}
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()

			msg, err := NewMessage(MessageTypeWelcome, WelcomePayload{
				UserID:  client.userID.String(),
				Clients: count,
			})
			if err == nil {
				client.Send(msg)
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.trySend(data) {
					log.Printf("WARN [hub.Run] dropping slow client userID=%s", client.userID)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a change for every connected client. It never blocks the
// caller: when the queue is full the change is dropped.
func (h *Hub) Publish(change domain.ResourceChange) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.seq++
	seq := h.seq
	h.mu.Unlock()

	msg, err := NewMessage(MessageTypeResourceChange, change)
	if err != nil {
		log.Printf("ERROR [hub.Publish] failed to build message: %v", err)
		return
	}
	msg.Seq = seq
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ERROR [hub.Publish] failed to marshal message: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Printf("WARN [hub.Publish] broadcast queue full, dropping %s %s id=%s", change.Action, change.Resource, change.ID)
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop gracefully shuts down the hub.
// It blocks until Run has exited and all clients are closed.
// Safe to call from several goroutines at once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
	<-h.done
}
