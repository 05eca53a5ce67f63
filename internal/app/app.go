package app

import (
	"context"
	"fmt"

	"conroom/config"
	"conroom/infras/otel"
	"conroom/infras/rabbitmq"
	"conroom/internal/domains/booking/store"
	"conroom/internal/domains/occupancy/persistence"
	"conroom/internal/domains/occupancy/service"
	"conroom/internal/domains/occupancy/status"
	roomRepository "conroom/internal/domains/room/repository"
	"conroom/internal/handlers/consumer"
	"conroom/shared/dto"
	"conroom/transport/http"

	"github.com/rs/zerolog/log"
)

// App owns the occupancy engine together with its background workers.
type App struct {
	config    *config.Config
	http      *http.HTTP
	service   service.Occupancy
	bookings  store.Bookings
	statuses  *status.Store
	rooms     roomRepository.Room
	persister persistence.Persister
	consumer  consumer.Handler
	rabbit    rabbitmq.Publisher
	otel      otel.Otel
}

func New(
	cfg *config.Config,
	server *http.HTTP,
	svc service.Occupancy,
	bookings store.Bookings,
	statuses *status.Store,
	rooms roomRepository.Room,
	persister persistence.Persister,
	bookingConsumer consumer.Handler,
	rabbit rabbitmq.Publisher,
	otl otel.Otel,
) *App {
	return &App{
		config:    cfg,
		http:      server,
		service:   svc,
		bookings:  bookings,
		statuses:  statuses,
		rooms:     rooms,
		persister: persister,
		consumer:  bookingConsumer,
		rabbit:    rabbit,
		otel:      otl,
	}
}

// Warm restores in-memory state after a restart: active bookings from
// storage, room statuses from storage or the cache mirror, then a resync
// and the no-show countdowns lost with the previous process.
func (a *App) Warm(ctx context.Context) error {
	loaded, err := a.bookings.Load(ctx, a.service.Now())
	if err != nil {
		return fmt.Errorf("failed to warm bookings: %w", err)
	}

	rooms := a.loadRoomStatuses(ctx)
	changed := a.service.Resync(ctx)
	recovered := a.service.RecoverCountdowns(ctx)

	log.Info().
		Int("bookings", loaded).
		Int("rooms", rooms).
		Int("changed", changed).
		Int("countdowns", recovered).
		Msg("Occupancy state warmed.")

	return nil
}

func (a *App) loadRoomStatuses(ctx context.Context) int {
	statuses := map[string]string{}

	rooms, err := a.rooms.GetAll(ctx, dto.FilterGroup{})
	if err == nil {
		for _, room := range rooms {
			statuses[room.ID] = room.Status
		}

		return a.statuses.Load(statuses)
	}

	log.Warn().Err(err).Msg("Failed to load room statuses, falling back to cache.")

	for _, roomID := range a.bookings.Rooms() {
		if cached, ok := a.persister.CachedRoomStatus(ctx, roomID); ok {
			statuses[roomID] = cached
		}
	}

	return a.statuses.Load(statuses)
}

// Start launches the resync worker and, when brokers are configured, the
// booking consumer. Both stop with ctx.
func (a *App) Start(ctx context.Context) {
	a.service.StartResyncWorker(ctx, a.config.ResyncInterval())

	if len(a.config.Events.Kafka.Brokers) > 0 {
		go a.consumer.Run(ctx)
	} else {
		log.Warn().Msg("No Kafka brokers configured, booking consumer disabled.")
	}
}

// Run warms the engine, starts the workers and serves HTTP until the
// process is signalled.
func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())

	if err := a.Warm(ctx); err != nil {
		log.Error().Err(err).Msg("Starting with an empty booking registry.")
	}

	a.Start(ctx)

	a.http.OnShutdown(func(ctx context.Context) {
		if err := a.otel.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to flush traces.")
		}
	})
	a.http.OnShutdown(func(context.Context) {
		if err := a.rabbit.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close RabbitMQ connection.")
		}
	})
	a.http.OnShutdown(func(context.Context) {
		cancel()
		a.service.Close()
	})

	a.http.Serve()
}
