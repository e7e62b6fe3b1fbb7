package chat

import (
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	Room   string
	UserID string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

type joinMsg struct {
	Client *Client
	Room   string
}

type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	join       chan joinMsg
	broadcast  chan broadcastMsg
	stop       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinMsg),
		broadcast:  make(chan broadcastMsg),
		stop:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.addToRoom(c, c.Room)
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.Room]; conns != nil && conns[c] {
				delete(conns, c)
				if len(conns) == 0 {
					delete(h.rooms, c.Room)
				}
				close(c.Send)
			} else if c.Room == "" {
				close(c.Send)
			}
			h.mu.Unlock()

		case j := <-h.join:
			h.mu.Lock()
			// Move between rooms without closing the send channel.
			if conns := h.rooms[j.Client.Room]; conns != nil {
				delete(conns, j.Client)
				if len(conns) == 0 {
					delete(h.rooms, j.Client.Room)
				}
			}
			j.Client.Room = j.Room
			h.addToRoom(j.Client, j.Room)
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.rooms[m.Room], c)
				}
			}
			h.mu.Unlock()

		case <-h.stop:
			h.mu.Lock()
			for room, conns := range h.rooms {
				for c := range conns {
					close(c.Send)
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.stop)
}

// Broadcast queues data for every client in room without blocking
// the caller when the hub has already stopped.
func (h *Hub) Broadcast(room string, data []byte) {
	select {
	case h.broadcast <- broadcastMsg{Room: room, Data: data}:
	case <-h.stop:
	}
}

func (h *Hub) addToRoom(c *Client, room string) {
	if room == "" {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
}
