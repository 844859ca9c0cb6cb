package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mjcnael/mechanical/internal/maintenance"
)

// пауза после ошибки чтения, чтобы недоступный брокер не забивал лог
const readRetryDelay = time.Second

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer читает события задач из Kafka и передаёт их обработчику
type Consumer struct {
	reader     messageReader
	handler    EventHandler
	logger     *slog.Logger
	retryDelay time.Duration
}

func NewKafkaConsumer(brokers []string, topic, groupID string, handler EventHandler, logger *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, handler, logger)
}

func newConsumer(reader messageReader, handler EventHandler, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{reader: reader, handler: handler, logger: logger, retryDelay: readRetryDelay}
}

// Run читает сообщения до отмены контекста или закрытия reader.
// Битые сообщения и ошибки обработки логируются и пропускаются.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				// reader закрыт
				return nil
			}
			c.logger.Warn("read message failed", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retryDelay):
			}
			continue
		}

		var event maintenance.TaskEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn("skip malformed task event",
				slog.Int64("offset", msg.Offset),
				slog.Any("error", err),
			)
			continue
		}

		if err := c.handler.HandleEvent(ctx, event); err != nil {
			c.logger.Warn("handle task event failed",
				slog.String("event_id", event.EventID),
				slog.Int64("task_id", event.TaskID),
				slog.Any("error", err),
			)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
