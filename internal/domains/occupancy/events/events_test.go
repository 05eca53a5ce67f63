package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"conroom/config"
	"conroom/infras/kafka"
	kafkaMocks "conroom/infras/kafka/mocks"
	rabbitMocks "conroom/infras/rabbitmq/mocks"
	"conroom/internal/domains/occupancy/events"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var at = time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)

func sample() []events.Event {
	return []events.Event{
		events.NewEvent(events.TypeBookingNoShow, "b-1", "r-1", "", "NO_SHOW", at),
		events.NewEvent(events.TypeRoomStatusChanged, "b-1", "r-1", "", "NO_SHOW", at),
	}
}

func TestNewEvent(t *testing.T) {
	a := events.NewEvent(events.TypeBookingCheckedIn, "b-1", "r-1", "userA", "IN_USE", at)
	b := events.NewEvent(events.TypeBookingCheckedIn, "b-1", "r-1", "userA", "IN_USE", at)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, events.TypeBookingCheckedIn, a.Type)
	assert.Equal(t, at, a.OccurredAt)
}

func TestKafkaPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := kafkaMocks.NewMockClient(ctrl)
	publisher := events.NewKafka(client, "occupancy.events")
	batch := sample()

	client.EXPECT().
		SendMessages(gomock.Any(), "occupancy.events", kafka.Message{Key: "r-1", Value: batch[0]}, kafka.Message{Key: "r-1", Value: batch[1]}).
		Return(nil)

	assert.NoError(t, publisher.Publish(context.Background(), batch...))

	client.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("broker down"))

	assert.Error(t, publisher.Publish(context.Background(), batch[0]))

	assert.NoError(t, publisher.Publish(context.Background()), "empty batch is not sent")
}

func TestRabbitMQPublisher(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	rabbit := rabbitMocks.NewMockPublisher(ctrl)
	publisher := events.NewRabbitMQ(rabbit)
	batch := sample()

	gomock.InOrder(
		rabbit.EXPECT().PublishJSON(gomock.Any(), events.TypeBookingNoShow, batch[0]).Return(nil),
		rabbit.EXPECT().PublishJSON(gomock.Any(), events.TypeRoomStatusChanged, batch[1]).Return(nil),
	)

	assert.NoError(t, publisher.Publish(context.Background(), batch...))

	rabbit.EXPECT().PublishJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("channel closed"))

	assert.Error(t, publisher.Publish(context.Background(), batch...), "stops at the first failure")
}

func TestNew_SelectsDriver(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := kafkaMocks.NewMockClient(ctrl)
	rabbit := rabbitMocks.NewMockPublisher(ctrl)
	batch := sample()[:1]

	cfg := &config.Config{}
	cfg.Events.Kafka.EventTopic = "occupancy.events"

	cfg.Events.Driver = config.EventsDriverKafka
	client.EXPECT().SendMessages(gomock.Any(), "occupancy.events", gomock.Any()).Return(nil)
	assert.NoError(t, events.New(cfg, client, rabbit).Publish(context.Background(), batch...))

	cfg.Events.Driver = config.EventsDriverRabbitMQ
	rabbit.EXPECT().PublishJSON(gomock.Any(), events.TypeBookingNoShow, gomock.Any()).Return(nil)
	assert.NoError(t, events.New(cfg, client, rabbit).Publish(context.Background(), batch...))

	for _, driver := range []string{config.EventsDriverNone, "carrier-pigeon"} {
		cfg.Events.Driver = driver
		assert.NoError(t, events.New(cfg, client, rabbit).Publish(context.Background(), batch...))
	}
}
