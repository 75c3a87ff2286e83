// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/models"
)

// sendBuffer is the number of events queued per subscriber before it is
// considered too slow and dropped.
const sendBuffer = 16

// Hub fans change events out to the WebSocket subscribers of each poll.
type Hub struct {
	mu       sync.Mutex
	polls    map[string]map[*client]struct{}
	total    int
	metrics  *metrics.MetricService
	upgrader websocket.Upgrader
}

// NewHub creates a hub. allowedOrigin restricts browser connections the same
// way the CORS middleware does; "" or "*" accepts any origin.
func NewHub(m *metrics.MetricService, allowedOrigin string) *Hub {
	return &Hub{
		polls:   make(map[string]map[*client]struct{}),
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigin),
		},
	}
}

func originChecker(allowed string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if allowed == "" || allowed == "*" {
			return true
		}
		origin := r.Header.Get("Origin")
		return origin == "" || origin == allowed
	}
}

// Notify implements service.Notifier. Subscribers whose buffer is full are
// disconnected; a deleted poll closes every subscription to it.
func (h *Hub) Notify(event models.LiveEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode live event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.polls[event.PollID] {
		select {
		case c.send <- payload:
		default:
			slog.Warn("dropping slow live subscriber", "poll_id", event.PollID)
			h.removeLocked(c)
		}
	}

	if event.Type == models.EventPollDeleted {
		for c := range h.polls[event.PollID] {
			h.removeLocked(c)
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to pollID.
// The caller is responsible for checking that the poll exists.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, pollID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		slog.Warn("websocket upgrade failed", "poll_id", pollID, "error", err)
		return
	}

	c := &client{
		hub:    h,
		conn:   conn,
		pollID: pollID,
		send:   make(chan []byte, sendBuffer),
	}
	h.add(c)
	slog.Info("live subscriber connected", "poll_id", pollID)

	go c.writePump()
	go c.readPump()
}

// Subscribers returns the number of open subscriptions to a poll.
func (h *Hub) Subscribers(pollID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.polls[pollID])
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.polls {
		for c := range clients {
			h.removeLocked(c)
		}
	}
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.polls[c.pollID]
	if !ok {
		clients = make(map[*client]struct{})
		h.polls[c.pollID] = clients
	}
	clients[c] = struct{}{}
	h.total++
	h.metrics.SetLiveSubscribers(h.total)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked unsubscribes c and closes its send channel, which makes the
// write pump send a close frame. Safe to call more than once.
func (h *Hub) removeLocked(c *client) {
	clients, ok := h.polls[c.pollID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(h.polls, c.pollID)
	}
	close(c.send)
	h.total--
	h.metrics.SetLiveSubscribers(h.total)
}
