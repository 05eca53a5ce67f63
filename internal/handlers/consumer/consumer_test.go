package consumer_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"conroom/config"
	kafkaMocks "conroom/infras/kafka/mocks"
	otelMocks "conroom/infras/otel/mocks"
	bookingModel "conroom/internal/domains/booking/model"
	"conroom/internal/domains/booking/model/dto"
	"conroom/internal/domains/booking/store"
	"conroom/internal/domains/occupancy/mocks"
	"conroom/internal/domains/occupancy/service"
	"conroom/internal/domains/occupancy/status"
	"conroom/internal/handlers/consumer"

	"github.com/jonboulle/clockwork"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, ctrl *gomock.Controller) service.Occupancy {
	t.Helper()

	cfg := &config.Config{}
	cfg.Occupancy.NoShowGraceMinutes = 15

	svc := service.New(cfg, clockwork.NewFakeClockAt(now), store.New(nil), status.New(), mocks.NewMockPersister(ctrl), mocks.NewMockPublisher(ctrl), otelMocks.NewOtel())
	t.Cleanup(svc.Close)

	return svc
}

func message(t *testing.T, event dto.BookingCreatedEvent) kafkaGo.Message {
	t.Helper()

	value, err := json.Marshal(event)
	require.NoError(t, err)

	return kafkaGo.Message{Key: []byte(event.RoomID), Value: value}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name         string
		message      func(t *testing.T) kafkaGo.Message
		wantBooking  bool
		wantDeadline bool
	}{
		{
			name: "confirmed booking starts a countdown",
			message: func(t *testing.T) kafkaGo.Message {
				return message(t, dto.BookingCreatedEvent{ID: "b-1", RoomID: "r-101", UserID: "userA", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)})
			},
			wantBooking:  true,
			wantDeadline: true,
		},
		{
			name: "pending payment is stored without a countdown",
			message: func(t *testing.T) kafkaGo.Message {
				return message(t, dto.BookingCreatedEvent{ID: "b-1", RoomID: "r-101", UserID: "userA", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Status: bookingModel.StatusPendingPayment})
			},
			wantBooking: true,
		},
		{
			name: "invalid window is dropped",
			message: func(t *testing.T) kafkaGo.Message {
				return message(t, dto.BookingCreatedEvent{ID: "b-1", RoomID: "r-101", UserID: "userA", StartTime: now, EndTime: now})
			},
		},
		{
			name: "malformed payload is dropped",
			message: func(_ *testing.T) kafkaGo.Message {
				return kafkaGo.Message{Value: []byte("{")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := newService(t, ctrl)

			handler := consumer.New(&config.Config{}, kafkaMocks.NewMockClient(ctrl), svc)
			handler.Handle(t.Context(), tt.message(t))

			_, found := svc.FindBooking("b-1")
			assert.Equal(t, tt.wantBooking, found)

			deadline, armed := svc.Deadline("b-1")
			assert.Equal(t, tt.wantDeadline, armed)

			if tt.wantDeadline {
				assert.Equal(t, now.Add(time.Hour+15*time.Minute), deadline)
			}
		})
	}
}

func TestRun_ConsumesBookingTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := newService(t, ctrl)

	cfg := &config.Config{}
	cfg.Events.Kafka.ConsumerGroup = "conroom"
	cfg.Events.Kafka.BookingTopic = "booking.created"

	client := kafkaMocks.NewMockClient(ctrl)
	client.EXPECT().
		Consume(gomock.Any(), "conroom", "booking.created", gomock.Any()).
		Do(func(_ context.Context, _, _ string, handler func(kafkaGo.Message)) {
			handler(message(t, dto.BookingCreatedEvent{ID: "b-1", RoomID: "r-101", UserID: "userA", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)}))
		})

	handler := consumer.New(cfg, client, svc)
	handler.Run(t.Context())

	booking, ok := svc.FindBooking("b-1")
	require.True(t, ok)
	assert.Equal(t, bookingModel.StatusConfirmed, booking.Status)
	assert.Equal(t, "userA", booking.CreatedBy)
}
