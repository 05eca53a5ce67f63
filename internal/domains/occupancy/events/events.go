package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=../mocks/events_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"conroom/config"
	"conroom/infras/kafka"
	"conroom/infras/rabbitmq"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	TypeBookingCheckedIn  = "booking.checked_in"
	TypeBookingNoShow     = "booking.no_show"
	TypeRoomStatusChanged = "room.status_changed"
)

// Event is a single occupancy change as published to the broker.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id,omitempty"`
	RoomID     string    `json:"room_id"`
	UserID     string    `json:"user_id,omitempty"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType, bookingID, roomID, userID, status string, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  bookingID,
		RoomID:     roomID,
		UserID:     userID,
		Status:     status,
		OccurredAt: at,
	}
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// New picks the publisher for the configured driver. Unknown drivers
// publish nothing.
func New(cfg *config.Config, kafkaClient kafka.Client, rabbit rabbitmq.Publisher) Publisher {
	switch cfg.Events.Driver {
	case config.EventsDriverKafka:
		return NewKafka(kafkaClient, cfg.Events.Kafka.EventTopic)
	case config.EventsDriverRabbitMQ:
		return NewRabbitMQ(rabbit)
	case config.EventsDriverNone:
	default:
		log.Warn().Str("driver", cfg.Events.Driver).Msg("Unknown events driver, occupancy events are disabled")
	}

	return noopPublisher{}
}

type kafkaPublisher struct {
	client kafka.Client
	topic  string
}

func NewKafka(client kafka.Client, topic string) Publisher {
	return &kafkaPublisher{client: client, topic: topic}
}

// Publish keys every message by room so a room's events stay ordered.
func (p *kafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, len(events))
	for i, event := range events {
		messages[i] = kafka.Message{Key: event.RoomID, Value: event}
	}

	if err := p.client.SendMessages(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish occupancy events: %w", err)
	}

	return nil
}

type rabbitPublisher struct {
	publisher rabbitmq.Publisher
}

func NewRabbitMQ(publisher rabbitmq.Publisher) Publisher {
	return &rabbitPublisher{publisher: publisher}
}

// Publish routes each event by its type.
func (p *rabbitPublisher) Publish(ctx context.Context, events ...Event) error {
	for _, event := range events {
		if err := p.publisher.PublishJSON(ctx, event.Type, event); err != nil {
			return fmt.Errorf("failed to publish occupancy event %s: %w", event.Type, err)
		}
	}

	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...Event) error {
	return nil
}
