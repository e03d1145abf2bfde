package ws

import (
	"encoding/json"
	"sync/atomic"

	"vidjot/internal/metrics"
	"vidjot/internal/store"

	"github.com/rs/zerolog/log"
)

// Hub fans chat traffic out to every connected client. There is one hub
// for the whole process; chat has no rooms, and hub identity is
// connection-scoped, independent of HTTP sessions.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	online     int32
	groups     store.GroupStore
}

func NewHub(groups store.GroupStore) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		groups:     groups,
	}
}

// Run is the hub's event loop. Messages are delivered to whoever is
// connected at dispatch time; clients that cannot keep up are dropped.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			atomic.StoreInt32(&h.online, int32(len(h.clients)))
			metrics.WsConnections.Inc()
			log.Info().Msg("chat client connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				atomic.StoreInt32(&h.online, int32(len(h.clients)))
				metrics.WsConnections.Dec()
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					close(c.send)
					delete(h.clients, c)
					atomic.StoreInt32(&h.online, int32(len(h.clients)))
					metrics.WsConnections.Dec()
				}
			}
		}
	}
}

// Online returns the number of connected clients.
func (h *Hub) Online() int { return int(atomic.LoadInt32(&h.online)) }

// event is the wire envelope in both directions; Type discriminates.
type event struct {
	Type     string     `json:"type"`
	Username string     `json:"username,omitempty"`
	Message  string     `json:"message,omitempty"`
	Name     string     `json:"name,omitempty"`
	Groups   []GroupDTO `json:"groups,omitempty"`
}

// GroupDTO is the group shape sent over the socket.
type GroupDTO struct {
	Name    string `json:"name"`
	GroupID string `json:"group_id"`
}

// handleEvent dispatches one inbound client event. Runs on the client's
// read goroutine, so c.username needs no locking.
func (h *Hub) handleEvent(c *Client, data []byte) {
	var ev event
	if err := json.Unmarshal(data, &ev); err != nil {
		return
	}
	switch ev.Type {
	case "change_username":
		// Only the sender's identity changes; nothing is broadcast and
		// no uniqueness is enforced.
		if ev.Username != "" {
			c.username = ev.Username
		}
	case "new_message":
		if ev.Message == "" {
			return
		}
		out, err := json.Marshal(event{Type: "new_message", Message: ev.Message, Username: c.username})
		if err != nil {
			return
		}
		metrics.WsMessagesTotal.Inc()
		h.broadcast <- out
	case "get_grp":
		groups, err := h.groups.All()
		if err != nil {
			log.Error().Err(err).Msg("hub: list groups")
			return
		}
		dtos := make([]GroupDTO, 0, len(groups))
		for _, g := range groups {
			dtos = append(dtos, GroupDTO{Name: g.Name, GroupID: g.GroupID})
		}
		out, err := json.Marshal(event{Type: "groups", Groups: dtos})
		if err != nil {
			return
		}
		// The full list goes to every peer, not just the requester, so
		// all connected clients stay in sync.
		h.broadcast <- out
	case "new_grp":
		if ev.Name == "" {
			return
		}
		if _, err := h.groups.Create(ev.Name); err != nil {
			log.Error().Err(err).Str("name", ev.Name).Msg("hub: create group")
		}
	}
}
