// Package notify tells venue owners about new reservations.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// DefaultBookingTopic receives one record per newly admitted reservation.
const DefaultBookingTopic = "booking.created"

// Notifier delivers the "new pending reservation" alert.
type Notifier interface {
	NotifyNewBooking(ctx context.Context, reservationID string) error
}

// BookingCreated is the payload published for a new reservation.
type BookingCreated struct {
	ReservationID string    `json:"reservation_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// producer is the subset of *kgo.Client used here.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaNotifier publishes BookingCreated records keyed by reservation ID.
// The owner-alert consumer lives outside this service.
type KafkaNotifier struct {
	producer producer
	topic    string
	now      func() time.Time
}

// NewKafkaNotifier wraps an existing kgo client. The caller owns the client.
func NewKafkaNotifier(client *kgo.Client, topic string) *KafkaNotifier {
	return newKafkaNotifier(client, topic)
}

func newKafkaNotifier(p producer, topic string) *KafkaNotifier {
	if topic == "" {
		topic = DefaultBookingTopic
	}
	return &KafkaNotifier{
		producer: p,
		topic:    topic,
		now:      time.Now,
	}
}

// NewKafkaClient creates a producer-only kgo client.
func NewKafkaClient(brokers []string, clientID string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return client, nil
}

func (n *KafkaNotifier) NotifyNewBooking(ctx context.Context, reservationID string) error {
	value, err := json.Marshal(BookingCreated{
		ReservationID: reservationID,
		OccurredAt:    n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal booking created event: %w", err)
	}

	record := &kgo.Record{
		Topic: n.topic,
		Key:   []byte(reservationID),
		Value: value,
	}
	if err := n.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish booking created event: %w", err)
	}
	return nil
}

// LogNotifier only logs the alert. Used when no broker is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyNewBooking(_ context.Context, reservationID string) error {
	n.logger.Info("new booking pending owner review", zap.String("reservation_id", reservationID))
	return nil
}
