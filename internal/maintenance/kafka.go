package maintenance

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type TaskEventType string

const (
	TaskCreated       TaskEventType = "task_created"
	TaskUpdated       TaskEventType = "task_updated"
	TaskStatusChanged TaskEventType = "task_status_changed"
)

// TaskEvent - событие изменения задачи для Kafka
type TaskEvent struct {
	EventID      string        `json:"eventId"`
	Type         TaskEventType `json:"type"`
	TaskID       int64         `json:"taskId"`
	ForemanID    int64         `json:"foremanId"`
	TechnicianID int64         `json:"technicianId"`
	Workshop     string        `json:"workshop"`
	Status       string        `json:"status"`
	Important    bool          `json:"important"`
	Timestamp    time.Time     `json:"timestamp"`
}

func NewTaskEvent(eventType TaskEventType, task Task) TaskEvent {
	return TaskEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		TaskID:       task.ID,
		ForemanID:    task.ForemanID,
		TechnicianID: task.TechnicianID,
		Workshop:     task.Workshop,
		Status:       string(task.Status),
		Important:    task.Important,
		Timestamp:    time.Now().UTC(),
	}
}

type KafkaProducer interface {
	SendTaskEvent(ctx context.Context, event TaskEvent) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaProducer(brokers []string, topic string) KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	return &kafkaProducer{
		writer: writer,
		topic:  topic,
	}
}

// SendTaskEvent отправляет событие; ключ - id задачи, чтобы события одной задачи шли по порядку
func (p *kafkaProducer) SendTaskEvent(ctx context.Context, event TaskEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.TaskID, 10)),
		Value: eventJSON,
		Time:  event.Timestamp,
	}

	return p.writer.WriteMessages(ctx, message)
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}
