package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/staff-portal/internal/config"
	"github.com/spec-kit/staff-portal/internal/events"
)

func TestRegisterHandlersRunsSynchronously(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher(logger)
	notifications := NewNotificationService(dispatcher, logger, config.NotificationConfig{
		EmailFrom:  "noreply@example.com",
		WebhookURL: "https://hooks.example.com/staff",
	})
	notifications.RegisterHandlers()

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{ID: "1", Type: events.EventStaffLoggedIn, StaffID: "s1", Timestamp: time.Now()}))
	assert.Equal(t, 1, logs.FilterMessage("StaffLoggedIn").Len())

	require.NoError(t, dispatcher.Publish(ctx, events.Event{ID: "2", Type: events.EventPasswordChanged, StaffID: "s1", Timestamp: time.Now()}))
	assert.Equal(t, 1, logs.FilterMessage("PasswordChanged").Len())
	assert.Equal(t, 1, logs.FilterMessage("sendEmailNotificationStub").Len())
	assert.Equal(t, 2, logs.FilterMessage("sendWebhookNotificationStub").Len())
}

func TestRegisterHandlersWithoutDispatcher(t *testing.T) {
	notifications := NewNotificationService(nil, zap.NewNop(), config.NotificationConfig{})
	assert.NotPanics(t, notifications.RegisterHandlers)
}

func TestHandleIgnoresUnknownEvents(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	notifications := NewNotificationService(nil, zap.New(core), config.NotificationConfig{})
	assert.NoError(t, notifications.Handle(context.Background(), events.Event{Type: "staff.unknown"}))
	assert.Zero(t, logs.Len())
}
