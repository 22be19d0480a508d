package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"schedly/models"
	"schedly/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Broadcaster fans appointment events out to connected clients. Emit is best
// effort; the engine never waits on delivery.
type Broadcaster interface {
	Emit(ctx context.Context, event models.RealtimeEvent) error
}

// RedisBroadcaster publishes events on a company-scoped Redis channel that
// the websocket edge subscribes to.
type RedisBroadcaster struct {
	Client *redis.Client
}

func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{Client: client}
}

func channelFor(event models.RealtimeEvent) string {
	return fmt.Sprintf("schedly:events:%s:%s", event.CompanyID, event.BranchID)
}

func (b *RedisBroadcaster) Emit(ctx context.Context, event models.RealtimeEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal realtime event: %w", err)
	}
	if err := b.Client.Publish(ctx, channelFor(event), payload).Err(); err != nil {
		utils.GetLogger().Warn("realtime publish failed",
			zap.String("type", event.Type), zap.Error(err))
		return err
	}
	return nil
}
