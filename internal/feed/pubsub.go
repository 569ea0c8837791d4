package feed

import (
	"context"
	"encoding/json"

	"childguard/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DecodeNotice parses a pub/sub payload.
func DecodeNotice(payload string) (models.ReportNotice, error) {
	var notice models.ReportNotice
	err := json.Unmarshal([]byte(payload), &notice)
	return notice, err
}

// ListenPubSub forwards notices from a Redis subscription until ctx is done.
// The subscription is closed on return.
func (h *Hub) ListenPubSub(ctx context.Context, ps *redis.PubSub) {
	defer ps.Close()
	h.Forward(ctx, ps.Channel())
}

// Forward decodes messages from ch into BroadcastCh. Undecodable payloads are
// logged and skipped.
func (h *Hub) Forward(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			notice, err := DecodeNotice(msg.Payload)
			if err != nil {
				h.logger.Error("error unmarshalling feed message", zap.Error(err))
				continue
			}
			select {
			case h.BroadcastCh <- notice:
			case <-ctx.Done():
				return
			case <-h.done:
				return
			}
		}
	}
}
