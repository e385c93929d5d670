package notifications

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max subscribers per video
	maxConnsPerVideo = 200
	// Max total connections
	maxTotalConns = 10000
)

// VideoHub maps videoID -> subscribed Clients.
type VideoHub struct {
	mu         sync.RWMutex
	conns      map[int]map[*Client]struct{}
	totalConns int
	closed     bool
}

// NewVideoHub creates an empty hub.
func NewVideoHub() *VideoHub {
	return &VideoHub{conns: make(map[int]map[*Client]struct{})}
}

// Name returns a human-readable identifier for this hub.
func (h *VideoHub) Name() string { return "video hub" }

// Register subscribes conn to videoID. It fails once the hub is shut down or
// a connection limit is reached.
func (h *VideoHub) Register(videoID int, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errors.New("hub is shut down")
	}
	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[videoID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[videoID] = m
	}
	if len(m) >= maxConnsPerVideo {
		return nil, errors.New("video connection limit reached")
	}

	client := NewClient(h, conn, videoID)
	m[client] = struct{}{}
	h.totalConns++
	return client, nil
}

// UnregisterClient removes client from its video.
func (h *VideoHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.conns[client.VideoID]
	if !ok {
		return
	}
	if _, exists := m[client]; exists {
		delete(m, client)
		h.totalConns--
	}
	if len(m) == 0 {
		delete(h.conns, client.VideoID)
	}
}

// BroadcastVideo sends message to every subscriber of videoID.
func (h *VideoHub) BroadcastVideo(videoID int, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[videoID] {
		c.TrySend(message)
	}
}

// Subscribers returns the number of clients watching videoID.
func (h *VideoHub) Subscribers(videoID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[videoID])
}

// StartWiring connects the Notifier to this hub: Redis messages on a video
// channel are forwarded to that video's subscribers.
func (h *VideoHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartVideoSubscriber(ctx, func(channel, payload string) {
		videoID, ok := VideoIDFromChannel(channel)
		if !ok {
			log.Printf("invalid video channel: %s", channel)
			return
		}
		h.BroadcastVideo(videoID, []byte(payload))
	})
}

// Shutdown gracefully closes all websocket connections
func (h *VideoHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	for _, clients := range h.conns {
		for client := range clients {
			client.Stop()
		}
	}
	h.conns = make(map[int]map[*Client]struct{})
	h.totalConns = 0
	return nil
}
