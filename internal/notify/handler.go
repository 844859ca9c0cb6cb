package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mjcnael/mechanical/internal/maintenance"
)

var ErrEmptyTaskID = errors.New("taskId is required")

type EventHandler interface {
	HandleEvent(ctx context.Context, event maintenance.TaskEvent) error
}

// ForemanLookup находит получателя уведомления
type ForemanLookup interface {
	GetForeman(ctx context.Context, id int64) (maintenance.Foreman, error)
}

// Notifier доставляет уведомления
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

type eventHandler struct {
	foremen  ForemanLookup
	notifier Notifier
	logger   *slog.Logger
}

func NewEventHandler(foremen ForemanLookup, notifier Notifier, logger *slog.Logger) EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &eventHandler{foremen: foremen, notifier: notifier, logger: logger}
}

func (h *eventHandler) HandleEvent(ctx context.Context, event maintenance.TaskEvent) error {
	if event.TaskID == 0 {
		return ErrEmptyTaskID
	}

	kind, ok := classify(event)
	if !ok {
		return nil
	}

	foreman, err := h.foremen.GetForeman(ctx, event.ForemanID)
	if err != nil {
		if errors.Is(err, maintenance.ErrNotFound) {
			h.logger.Warn("foreman not found, skip notification",
				slog.Int64("task_id", event.TaskID),
				slog.Int64("foreman_id", event.ForemanID),
			)
			return nil
		}
		return fmt.Errorf("resolve foreman: %w", err)
	}

	if err := h.notifier.Send(ctx, newNotification(kind, event, foreman)); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier пишет уведомления в лог
func NewLogNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Send(ctx context.Context, notification Notification) error {
	n.logger.InfoContext(ctx, "notification",
		slog.String("kind", string(notification.Kind)),
		slog.Int64("task_id", notification.TaskID),
		slog.Int64("recipient_id", notification.RecipientID),
		slog.String("recipient", notification.Recipient),
		slog.String("message", notification.Message),
		slog.String("at", notification.CreatedAt.Format(time.RFC3339)),
	)
	return nil
}
