package live

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
)

// Message is the envelope pushed to leaderboard subscribers.
type Message struct {
	Type     string      `json:"type"` // e.g. "LEADERBOARD_UPDATED"
	Payload  interface{} `json:"payload"`
	Category string      `json:"category,omitempty"`
}

const TypeLeaderboardUpdated = "LEADERBOARD_UPDATED"

// Hub fans leaderboard updates out to WebSocket subscribers grouped by game
// category. Room membership is serialized through the Run loop.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Category]; !ok {
				h.rooms[client.Category] = make(map[*Client]bool)
			}
			h.rooms[client.Category][client] = true
			h.logger.Debug("leaderboard subscriber joined",
				slog.String("category", client.Category),
				slog.Int("subscribers", len(h.rooms[client.Category])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Category]; ok {
				if _, okClient := clients[client]; okClient {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Category)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// RoomKey normalizes a game category into a room identifier.
func RoomKey(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// BroadcastLeaderboard pushes a recomputed leaderboard to every subscriber of
// the category's room. Slow clients are skipped rather than blocked on.
func (h *Hub) BroadcastLeaderboard(category string, payload interface{}) {
	message := Message{
		Type:     TypeLeaderboardUpdated,
		Payload:  payload,
		Category: category,
	}
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal leaderboard message", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[RoomKey(category)]
	if !ok {
		return
	}
	for client := range clients {
		client.trySend(data)
	}
}
