package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-portal/internal/config"
	"github.com/spec-kit/staff-portal/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes the handlers directly, running them on the publisher's goroutine.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, t := range n.EventTypes() {
		n.dispatcher.Subscribe(t, n.Handle)
	}
}

// EventTypes lists the events this service reacts to.
func (n *NotificationService) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventStaffLoggedIn,
		events.EventPasswordChanged,
		events.EventLoginLogsPurged,
	}
}

// Handle routes an event to its notification handler.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventStaffLoggedIn:
		return n.handleStaffLoggedIn(ctx, event)
	case events.EventPasswordChanged:
		return n.handlePasswordChanged(ctx, event)
	case events.EventLoginLogsPurged:
		return n.handleLoginLogsPurged(ctx, event)
	default:
		return nil
	}
}

func (n *NotificationService) handleStaffLoggedIn(ctx context.Context, event events.Event) error {
	n.logger.Info("StaffLoggedIn", zap.String("staff_id", event.StaffID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("PasswordChanged", zap.String("staff_id", event.StaffID))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLoginLogsPurged(ctx context.Context, event events.Event) error {
	n.logger.Info("LoginLogsPurged", zap.String("actor_id", event.StaffID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("staff_id", event.StaffID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("staff_id", event.StaffID),
		zap.String("event_type", string(event.Type)))
}
