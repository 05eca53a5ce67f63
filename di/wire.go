//go:build wireinject
// +build wireinject

package di

import (
	"conroom/config"
	"conroom/infras/kafka"
	"conroom/infras/otel"
	"conroom/infras/postgres"
	"conroom/infras/rabbitmq"
	"conroom/infras/redis"
	"conroom/internal/app"
	"conroom/shared/cache"
	"conroom/transport/http"
	"conroom/transport/http/middleware"
	"conroom/transport/http/router"

	bookingRepository "conroom/internal/domains/booking/repository"
	bookingStore "conroom/internal/domains/booking/store"
	"conroom/internal/domains/occupancy/events"
	"conroom/internal/domains/occupancy/persistence"
	occupancyService "conroom/internal/domains/occupancy/service"
	"conroom/internal/domains/occupancy/status"
	roomRepository "conroom/internal/domains/room/repository"
	"conroom/internal/handlers/consumer"
	occupancyHandler "conroom/internal/handlers/occupancy"

	"github.com/google/wire"
	"github.com/jonboulle/clockwork"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	rabbitmq.New,
	clockwork.NewRealClock,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingStore.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
)

var occupancyDomain = wire.NewSet(
	status.New,
	persistence.New,
	events.New,
	occupancyService.New,
)

var domains = wire.NewSet(
	bookingDomain,
	roomDomain,
	occupancyDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	occupancyHandler.New,
	router.New,
)

var consumers = wire.NewSet(
	consumer.New,
)

func InitializeApp() *app.App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		consumers,
		http.New,
		app.New,
	)

	return &app.App{}
}
