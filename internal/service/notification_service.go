package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/crp-service/internal/events"
	"github.com/spec-kit/crp-service/internal/persistence"
)

// NotificationService broadcasts domain events to the Redis channel for
// external real-time consumers. Delivery is best effort; the engine does
// not depend on it.
type NotificationService struct {
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		redis:      redis,
		logger:     logger,
	}
}

var broadcastTypes = []events.EventType{
	events.EventTicketSubmitted,
	events.EventTicketClassified,
	events.EventTicketUpdated,
	events.EventThreadUpdated,
	events.EventEngineerUpdated,
	events.EventWorkflowAdvanced,
}

// RegisterHandlers subscribes to every broadcastable event type.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range broadcastTypes {
		n.dispatcher.Subscribe(eventType, n.broadcast)
	}
}

func (n *NotificationService) broadcast(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("marshal event", zap.Error(err), zap.String("event_id", event.ID))
		return nil
	}
	if err := n.redis.PublishEvent(ctx, payload); err != nil {
		n.logger.Debug("event broadcast skipped",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return nil
}
