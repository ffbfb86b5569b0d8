// Package livehub fans dispatch price updates out to websocket subscribers.
// The ingestion runtime posts each tick's prices to the hub's internal
// /broadcast endpoint; the hub keeps a per-region last-known map (persisted
// to sqlite across restarts) so new connections get a full snapshot first.
package livehub

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nemflow/nemflow/internal/metrics"
	"github.com/nemflow/nemflow/internal/model"
)

// Frame type discriminators for both directions of the websocket protocol.
const (
	FrameInitial     = "INITIAL"
	FramePriceUpdate = "PRICE_UPDATE"
	FramePing        = "PING"
	FramePong        = "PONG"
	FrameSubscribe   = "SUBSCRIBE"
	FrameTrade       = "TRADE"
	FrameError       = "ERROR"
)

// Hub owns the subscriber set and the last-known price map.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]bool
	lastKnown map[string]model.DispatchPrice

	store    *SnapshotStore
	upgrader websocket.Upgrader
}

// NewHub builds a hub, restoring the last-known map from store when one is
// given. A restore failure is logged and the hub starts empty.
func NewHub(store *SnapshotStore) *Hub {
	h := &Hub{
		clients:   make(map[*Client]bool),
		lastKnown: make(map[string]model.DispatchPrice),
		store:     store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	if store != nil {
		restored, err := store.Load()
		if err != nil {
			log.Warn().Err(err).Msg("failed to restore hub price snapshot")
		} else {
			h.lastKnown = restored
		}
	}
	return h
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Snapshot returns a copy of the last-known per-region price map.
func (h *Hub) Snapshot() map[string]model.DispatchPrice {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[string]model.DispatchPrice, len(h.lastKnown))
	for k, v := range h.lastKnown {
		out[k] = v
	}
	return out
}

// HandleWS upgrades the request and registers a subscriber. The userId and
// regions query parameters seed the client identity and region filter; an
// empty filter means all regions. The INITIAL frame is queued before the
// client can receive any PRICE_UPDATE.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("failed to upgrade websocket connection")
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		userID:   r.URL.Query().Get("userId"),
		regions:  parseRegions(r.URL.Query().Get("regions")),
		lastPong: time.Now(),
	}

	initial, err := json.Marshal(initialFrame{
		Type:      FrameInitial,
		Prices:    h.Snapshot(),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to encode initial frame")
		conn.Close()
		return
	}
	client.send <- initial

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	metrics.Subscribers.Inc()

	log.Info().
		Str("user_id", client.userID).
		Int("clients", h.ClientCount()).
		Msg("websocket subscriber connected")

	go client.writePump()
	go client.readPump()
}

// Broadcast records prices as last-known, persists them, and fans a
// PRICE_UPDATE out to every subscriber whose filter matches at least one
// region. Subscribers with full send buffers are dropped.
func (h *Hub) Broadcast(prices []model.DispatchPrice) {
	if len(prices) == 0 {
		return
	}

	h.mu.Lock()
	for _, dp := range prices {
		h.lastKnown[dp.Region] = dp
	}
	h.mu.Unlock()

	if h.store != nil {
		if err := h.store.Save(prices); err != nil {
			log.Warn().Err(err).Msg("failed to persist hub price snapshot")
		}
	}

	now := time.Now().UTC()
	h.mu.RLock()
	targets := make(map[*Client][]byte)
	for client := range h.clients {
		filtered := client.filter(prices)
		if len(filtered) == 0 {
			continue
		}
		frame, err := json.Marshal(updateFrame{
			Type:      FramePriceUpdate,
			Prices:    filtered,
			Timestamp: now,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to encode price update frame")
			continue
		}
		targets[client] = frame
	}
	h.mu.RUnlock()

	for client, frame := range targets {
		select {
		case client.send <- frame:
		default:
			h.removeClient(client)
		}
	}
}

// broadcastRaw sends an already-encoded frame to every subscriber.
func (h *Hub) broadcastRaw(frame []byte) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- frame:
		default:
			h.removeClient(client)
		}
	}
}

// removeClient deregisters a subscriber and signals its writePump to stop.
// The send channel is never closed: Broadcast, broadcastRaw and sendError
// write to it from other goroutines, so closing it would race those sends.
// The membership check makes the done close happen exactly once.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	h.mu.Unlock()

	close(client.done)
	metrics.Subscribers.Dec()
	log.Info().
		Str("user_id", client.userID).
		Int("clients", h.ClientCount()).
		Msg("websocket subscriber removed")
}

// HandleBroadcast is the internal endpoint the ingestion runtime posts each
// tick's dispatch prices to.
func (h *Hub) HandleBroadcast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var prices []model.DispatchPrice
	if err := json.NewDecoder(r.Body).Decode(&prices); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	h.Broadcast(prices)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"regions":     len(prices),
		"subscribers": h.ClientCount(),
	})
}

type initialFrame struct {
	Type      string                         `json:"type"`
	Prices    map[string]model.DispatchPrice `json:"prices"`
	Timestamp time.Time                      `json:"timestamp"`
}

type updateFrame struct {
	Type      string                `json:"type"`
	Prices    []model.DispatchPrice `json:"prices"`
	Timestamp time.Time             `json:"timestamp"`
}

func parseRegions(raw string) map[string]bool {
	out := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		region := strings.ToUpper(strings.TrimSpace(part))
		if model.IsRegion(region) {
			out[region] = true
		}
	}
	return out
}
