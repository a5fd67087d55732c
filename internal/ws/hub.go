package ws

import (
	"log"
	"sync"
)

// Hub tracks room membership for live connections. Rooms are bare
// strings (usually project ids); membership is in-memory only and does
// not survive a disconnect. Each client keeps a back-reference set of
// its rooms so teardown removes it everywhere deterministically.
type Hub struct {
	mutex   sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]map[string]struct{}
	logger  *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]map[string]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mutex.Lock()
	h.clients[client] = make(map[string]struct{})
	total := len(h.clients)
	h.mutex.Unlock()

	if h.logger != nil {
		h.logger.Printf("WS connected | total_clients=%d", total)
	}
}

// Unregister drops the client from every room it joined and closes its
// send channel. Safe to call more than once per client.
func (h *Hub) Unregister(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mutex.Lock()
	ok := h.unregisterLocked(client)
	total := len(h.clients)
	h.mutex.Unlock()

	if ok && h.logger != nil {
		h.logger.Printf("WS disconnected | total_clients=%d", total)
	}
}

// Join adds the client to the room. Any connection may join any room;
// joining twice is a no-op.
func (h *Hub) Join(client *Client, room string) {
	if h == nil || client == nil || room == "" {
		return
	}
	h.mutex.Lock()
	rooms, ok := h.clients[client]
	if !ok {
		h.mutex.Unlock()
		return
	}
	rooms[room] = struct{}{}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[client] = struct{}{}
	size := len(members)
	h.mutex.Unlock()

	if h.logger != nil {
		h.logger.Printf("WS room join | room=%s members=%d", room, size)
	}
}

// Leave removes the client from the room; leaving a room it never
// joined is not an error.
func (h *Hub) Leave(client *Client, room string) {
	if h == nil || client == nil || room == "" {
		return
	}
	h.mutex.Lock()
	if rooms, ok := h.clients[client]; ok {
		delete(rooms, room)
	}
	h.removeFromRoomLocked(room, client)
	h.mutex.Unlock()

	if h.logger != nil {
		h.logger.Printf("WS room leave | room=%s", room)
	}
}

// Broadcast delivers message to every current member of the room,
// sender included. Clients with a full send buffer are dropped rather
// than blocking the rest of the room. Sends happen under the hub lock:
// they never block on a buffered channel, and serializing them with
// Unregister means no send can race the channel close.
func (h *Hub) Broadcast(room string, message []byte) {
	if h == nil || room == "" {
		return
	}
	h.mutex.Lock()
	members := 0
	var slow []*Client
	for client := range h.rooms[room] {
		members++
		select {
		case client.send <- message:
		default:
			slow = append(slow, client)
		}
	}
	for _, client := range slow {
		h.unregisterLocked(client)
	}
	h.mutex.Unlock()

	if h.logger != nil {
		for range slow {
			h.logger.Printf("WS send dropped | room=%s reason=buffer_full", room)
		}
		h.logger.Printf("WS broadcast | room=%s members=%d", room, members)
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomSize(room string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[room])
}

// unregisterLocked tears the client down; h.mutex must be held.
func (h *Hub) unregisterLocked(client *Client) bool {
	rooms, ok := h.clients[client]
	if !ok {
		return false
	}
	for room := range rooms {
		h.removeFromRoomLocked(room, client)
	}
	delete(h.clients, client)
	close(client.send)
	return true
}

func (h *Hub) removeFromRoomLocked(room string, client *Client) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}
