package http

import (
	"sync"

	"github.com/rs/zerolog"

	"live-quiz-service/internal/domain"
)

const sendBuffer = 32

// Hub tracks open connections and the session rooms they are attached to. It implements
// app.Broadcaster; every send is non-blocking so callers may hold a session lock.
type Hub struct {
	log zerolog.Logger

	mu      sync.RWMutex
	clients map[string]*client
	rooms   map[string]map[string]struct{}
}

type client struct {
	id   string
	send chan domain.Event
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:     log.With().Str("component", "hub").Logger(),
		clients: make(map[string]*client),
		rooms:   make(map[string]map[string]struct{}),
	}
}

func (h *Hub) register(id string) *client {
	c := &client{id: id, send: make(chan domain.Event, sendBuffer)}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	return c
}

// unregister detaches the connection from every room and closes its send channel.
func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	for room, members := range h.rooms {
		delete(members, id)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
}

func (h *Hub) Attach(room, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[connID]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]struct{})
		h.rooms[room] = members
	}
	members[connID] = struct{}{}
}

func (h *Hub) Detach(room, connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) SendTo(connID string, event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[connID]; ok {
		h.deliverLocked(c, event)
	}
}

func (h *Hub) Broadcast(room string, event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id := range h.rooms[room] {
		if c, ok := h.clients[id]; ok {
			h.deliverLocked(c, event)
		}
	}
}

// CloseRoom forgets the room; connections stay open.
func (h *Hub) CloseRoom(room string) {
	h.mu.Lock()
	delete(h.rooms, room)
	h.mu.Unlock()
}

// RoomSize reports how many connections are attached to room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// deliverLocked drops the oldest queued event when a slow client's buffer is full.
func (h *Hub) deliverLocked(c *client, event domain.Event) {
	select {
	case c.send <- event:
		return
	default:
	}
	select {
	case <-c.send:
	default:
	}
	select {
	case c.send <- event:
	default:
		h.log.Warn().Str("conn_id", c.id).Str("event", event.Type).Msg("dropped event for slow client")
	}
}
