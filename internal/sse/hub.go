package sse

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/stockroom-backend/internal/logger"
)

const (
	StageParsing   = "parsing"
	StageBinding   = "binding"
	StageApplying  = "applying"
	StageCompleted = "completed"
	StageFailed    = "failed"
)

// ProgressEvent is one progress update for a running upload job. UploadID is
// the subscription channel.
type ProgressEvent struct {
	UploadID string `json:"upload_id"`
	Stage    string `json:"stage"`
	Message  string `json:"message,omitempty"`
	Current  int    `json:"current,omitempty"`
	Total    int    `json:"total,omitempty"`
}

type Client struct {
	ID       uuid.UUID
	UploadID string
	Outbound chan ProgressEvent
	once     sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() { close(c.Outbound) })
}

// Hub fans progress events out to subscribed SSE clients. Slow clients drop
// events rather than block the publisher.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Client]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "ProgressHub"),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Subscribe(uploadID string) *Client {
	client := &Client{
		ID:       uuid.New(),
		UploadID: uploadID,
		Outbound: make(chan ProgressEvent, 16),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.subscriptions[uploadID]
	if !ok {
		clients = make(map[*Client]bool)
		h.subscriptions[uploadID] = clients
	}
	clients[client] = true
	h.log.Debug("Progress client subscribed", "clientID", client.ID, "uploadID", uploadID)
	return client
}

func (h *Hub) Unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.subscriptions[client.UploadID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.subscriptions, client.UploadID)
		}
	}
	client.Close()
	h.log.Debug("Progress client unsubscribed", "clientID", client.ID, "uploadID", client.UploadID)
}

func (h *Hub) Broadcast(ev ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.subscriptions[ev.UploadID] {
		select {
		case client.Outbound <- ev:
		default:
			h.log.Warn("Progress client lagging, dropping event", "clientID", client.ID, "uploadID", ev.UploadID)
		}
	}
}
