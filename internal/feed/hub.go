// Package feed pushes new-report notices to connected moderators. Notices
// arrive through Redis pub/sub so every backend instance sees every report.
package feed

import (
	"context"
	"sync"

	"childguard/backend/internal/models"

	"go.uber.org/zap"
)

// Hub keeps the set of connected clients and fans notices out to them.
type Hub struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.ReportNotice

	mu       sync.RWMutex
	clients  map[string]Client
	logger   *zap.Logger
	done     chan struct{}
	stopOnce sync.Once
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.ReportNotice),
		clients:      make(map[string]Client),
		logger:       logger,
		done:         make(chan struct{}),
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Register hands client to the hub. It returns false if the hub has stopped.
func (h *Hub) Register(client Client) bool {
	select {
	case h.RegisterCh <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes client. It is a no-op once the hub has stopped, since
// stopping already closed every client.
func (h *Hub) Unregister(client Client) {
	select {
	case h.UnregisterCh <- client:
	case <-h.done:
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes every
// remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() { close(h.done) })
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.RegisterCh:
			h.mu.Lock()
			h.clients[client.GetID()] = client
			h.mu.Unlock()
			h.logger.Info("feed client registered", zap.String("client_id", client.GetID()))

		case client := <-h.UnregisterCh:
			h.remove(client.GetID())

		case notice := <-h.BroadcastCh:
			h.broadcast(notice)
		}
	}
}

func (h *Hub) broadcast(notice models.ReportNotice) {
	h.mu.RLock()
	var slow []string
	for id, client := range h.clients {
		select {
		case client.GetSendChannel() <- notice:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.logger.Warn("dropping slow feed client", zap.String("client_id", id))
		h.remove(id)
	}
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	client, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()
	if ok {
		client.Close()
		h.logger.Info("feed client unregistered", zap.String("client_id", id))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.Close()
		delete(h.clients, id)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Connected reports whether a client with id is registered.
func (h *Hub) Connected(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[id]
	return ok
}
