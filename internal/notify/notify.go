package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Event — полезная нагрузка уведомления о переходе записи.
type Event struct {
	Type           string    `json:"type"`
	OrganizationID string    `json:"organization_id"`
	AppointmentID  string    `json:"appointment_id"`
	OrderNumber    int       `json:"order_number"`
	OccurredAt     time.Time `json:"occurred_at"`
}

const (
	EventAppointmentInChair   = "appointment.inchair"
	EventAppointmentCompleted = "appointment.completed"
	EventAppointmentCancelled = "appointment.cancelled"
)

// Notifier — fire-and-forget: ядро не зависит от успеха доставки,
// сбой доставки никогда не откатывает переход состояния.
type Notifier interface {
	Publish(ctx context.Context, evt Event)
}

// KafkaNotifier пишет события в один топик, ключ — appointment id,
// чтобы события одной записи попадали в одну партицию.
type KafkaNotifier struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

func NewKafkaNotifier(brokers []string, topic string, logger *logrus.Logger) *KafkaNotifier {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
	return &KafkaNotifier{writer: writer, logger: logger}
}

func (n *KafkaNotifier) Publish(ctx context.Context, evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		n.logger.WithFields(logrus.Fields{
			"module": "notify", "funcName": "Publish", "event": evt.Type,
		}).Warn("marshal notification: " + err.Error())
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.AppointmentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		n.logger.WithFields(logrus.Fields{
			"module": "notify", "funcName": "Publish",
			"event": evt.Type, "appointment_id": evt.AppointmentID,
		}).Warn("publish notification: " + err.Error())
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// NoopNotifier — заглушка для тестов и запуска без Kafka.
type NoopNotifier struct{}

func (NoopNotifier) Publish(ctx context.Context, evt Event) {}
