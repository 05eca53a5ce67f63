package consumer

import (
	"context"

	"conroom/config"
	"conroom/infras/kafka"
	"conroom/internal/domains/booking/model/dto"
	"conroom/internal/domains/occupancy/service"
	"conroom/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Handler feeds booking.created messages into the occupancy engine.
type Handler struct {
	client  kafka.Client
	service service.Occupancy
	group   string
	topic   string
}

func New(cfg *config.Config, client kafka.Client, service service.Occupancy) Handler {
	return Handler{
		client:  client,
		service: service,
		group:   cfg.Events.Kafka.ConsumerGroup,
		topic:   cfg.Events.Kafka.BookingTopic,
	}
}

// Run blocks until ctx is done.
func (h *Handler) Run(ctx context.Context) {
	log.Info().Str("topic", h.topic).Str("group", h.group).Msg("Starting booking consumer.")

	h.client.Consume(ctx, h.group, h.topic, func(message kafkaGo.Message) {
		h.Handle(ctx, message)
	})
}

// Handle registers the booking carried by message. Malformed or invalid
// payloads are logged and dropped.
func (h *Handler) Handle(ctx context.Context, message kafkaGo.Message) {
	event, err := kafka.Decode[dto.BookingCreatedEvent](message)
	if err != nil {
		log.Error().Err(err).Str("key", string(message.Key)).Msg("Dropping malformed booking event.")

		return
	}

	if err := h.service.RegisterBooking(ctx, event.ToModel()); err != nil {
		log.Error().Err(err).Str(constant.LogFieldBookingID, event.ID).Msg("Failed to register booking.")

		return
	}

	log.Debug().Str(constant.LogFieldBookingID, event.ID).Str(constant.LogFieldRoomID, event.RoomID).Msg("Booking registered.")
}
