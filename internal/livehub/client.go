package livehub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nemflow/nemflow/internal/model"
)

const (
	sendBuffer   = 256
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
	maxFrameSize = 4096
)

// Client is one websocket subscriber. The region filter is mutable via
// SUBSCRIBE frames; an empty filter receives every region.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}

	userID string

	mu       sync.RWMutex
	regions  map[string]bool
	lastPong time.Time
}

// filter returns the subset of prices this client subscribed to.
func (c *Client) filter(prices []model.DispatchPrice) []model.DispatchPrice {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.regions) == 0 {
		return prices
	}
	out := make([]model.DispatchPrice, 0, len(prices))
	for _, dp := range prices {
		if c.regions[dp.Region] {
			out = append(out, dp)
		}
	}
	return out
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.hub.removeClient(c)
				return
			}
		case <-ticker.C:
			ping, _ := json.Marshal(map[string]interface{}{
				"type":      FramePing,
				"timestamp": time.Now().UTC(),
			})
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				c.hub.removeClient(c)
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.removeClient(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("user_id", c.userID).Msg("websocket read failed")
			}
			return
		}
		c.handleInbound(raw)
	}
}

// handleInbound dispatches one client frame by its type discriminator.
func (c *Client) handleInbound(raw []byte) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		c.sendError("invalid frame")
		return
	}

	switch head.Type {
	case FrameSubscribe:
		var sub struct {
			Regions []string `json:"regions"`
		}
		if err := json.Unmarshal(raw, &sub); err != nil {
			c.sendError("invalid SUBSCRIBE frame")
			return
		}
		filter := make(map[string]bool)
		for _, region := range sub.Regions {
			if model.IsRegion(region) {
				filter[region] = true
			}
		}
		c.mu.Lock()
		c.regions = filter
		c.mu.Unlock()

	case FramePong:
		c.mu.Lock()
		c.lastPong = time.Now()
		c.mu.Unlock()

	case FrameTrade:
		// Rebroadcast the trade to every subscriber, stamped with the
		// sender's identity and the server receive time.
		var trade map[string]interface{}
		if err := json.Unmarshal(raw, &trade); err != nil {
			c.sendError("invalid TRADE frame")
			return
		}
		trade["userId"] = c.userID
		trade["timestamp"] = time.Now().UTC().Format(time.RFC3339)
		frame, err := json.Marshal(trade)
		if err != nil {
			c.sendError("invalid TRADE frame")
			return
		}
		c.hub.broadcastRaw(frame)

	default:
		c.sendError("unknown frame type: " + head.Type)
	}
}

func (c *Client) sendError(message string) {
	frame, _ := json.Marshal(map[string]string{
		"type":    FrameError,
		"message": message,
	})
	select {
	case c.send <- frame:
	default:
	}
}
