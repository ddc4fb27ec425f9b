package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-portal/internal/events"
	"github.com/spec-kit/staff-portal/internal/service"
)

const defaultQueueSize = 256

// NotificationWorker moves notification handling off the request path.
// Events are queued on publish and handled by a single goroutine.
type NotificationWorker struct {
	notifications *service.NotificationService
	logger        *zap.Logger
	queue         chan events.Event
	wg            sync.WaitGroup
	mu            sync.RWMutex
	closed        bool
}

// NewNotificationWorker builds a worker with a bounded queue. queueSize <= 0 uses a default.
func NewNotificationWorker(notifications *service.NotificationService, logger *zap.Logger, queueSize int) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		notifications: notifications,
		logger:        logger,
		queue:         make(chan events.Event, queueSize),
	}
}

// StartNotificationWorker subscribes the worker to the dispatcher and starts consuming.
// The returned worker must be stopped with Stop to drain the queue.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	w := NewNotificationWorker(notifications, logger, 0)
	if dispatcher == nil || notifications == nil {
		return w
	}
	for _, t := range notifications.EventTypes() {
		dispatcher.Subscribe(t, w.Enqueue)
	}
	w.Start(ctx)
	return w
}

// Start launches the consumer goroutine.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for event := range w.queue {
			if err := w.notifications.Handle(context.WithoutCancel(ctx), event); err != nil {
				w.logger.Warn("notification failed",
					zap.String("event_type", string(event.Type)),
					zap.String("event_id", event.ID),
					zap.Error(err),
				)
			}
		}
	}()
}

// Enqueue is an events.EventHandler. A full queue drops the event rather than block the publisher.
func (w *NotificationWorker) Enqueue(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return nil
	}
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
		)
	}
	return nil
}

// Stop closes the queue and waits for queued events to be handled.
func (w *NotificationWorker) Stop() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}
