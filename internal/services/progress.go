package services

import (
	"context"

	redisclient "github.com/yungbote/stockroom-backend/internal/clients/redis"
	"github.com/yungbote/stockroom-backend/internal/logger"
	"github.com/yungbote/stockroom-backend/internal/sse"
)

// ProgressNotifier publishes upload-progress events. Events always reach the
// local hub; when a redis bus is configured they are fanned out to the other
// instances as well.
type ProgressNotifier interface {
	Notify(ctx context.Context, ev sse.ProgressEvent)
}

type progressNotifier struct {
	log *logger.Logger
	hub *sse.Hub
	bus redisclient.ProgressBus
}

func NewProgressNotifier(log *logger.Logger, hub *sse.Hub, bus redisclient.ProgressBus) ProgressNotifier {
	return &progressNotifier{
		log: log.With("service", "ProgressNotifier"),
		hub: hub,
		bus: bus,
	}
}

func (n *progressNotifier) Notify(ctx context.Context, ev sse.ProgressEvent) {
	if n.hub != nil {
		n.hub.Broadcast(ev)
	}
	if n.bus != nil {
		if err := n.bus.Publish(ctx, ev); err != nil {
			n.log.Warn("Progress publish failed", "uploadID", ev.UploadID, "error", err)
		}
	}
}
