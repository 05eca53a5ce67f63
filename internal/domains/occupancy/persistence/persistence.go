package persistence

//go:generate go run go.uber.org/mock/mockgen -source=./persistence.go -destination=../mocks/persistence_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"conroom/config"
	"conroom/infras/otel"
	bookingModel "conroom/internal/domains/booking/model"
	bookingRepo "conroom/internal/domains/booking/repository"
	roomModel "conroom/internal/domains/room/model"
	roomRepo "conroom/internal/domains/room/repository"
	"conroom/shared"
	"conroom/shared/cache"
	"conroom/shared/constant"

	"github.com/rs/zerolog/log"
)

const cacheRoomStatus = "room:status"

// Persister writes engine state changes to storage after the in-memory
// transition has already happened.
type Persister interface {
	SaveBooking(ctx context.Context, bookingID string, changes bookingModel.Changes) error
	SaveRoomStatus(ctx context.Context, roomID, status string) error
	CachedRoomStatus(ctx context.Context, roomID string) (string, bool)
}

type persisterImpl struct {
	bookings bookingRepo.Booking
	rooms    roomRepo.Room
	cache    cache.RedisCache
	cfg      *config.Config
	otel     otel.Otel
}

func New(bookings bookingRepo.Booking, rooms roomRepo.Room, cache cache.RedisCache, cfg *config.Config, otel otel.Otel) Persister {
	return &persisterImpl{
		bookings: bookings,
		rooms:    rooms,
		cache:    cache,
		cfg:      cfg,
		otel:     otel,
	}
}

func (p *persisterImpl) SaveBooking(ctx context.Context, bookingID string, changes bookingModel.Changes) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SaveBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	fields := changes.Fields()
	if len(fields) == 0 {
		return nil
	}

	err = p.bookings.Update(ctx, fields, shared.FilterByID(bookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to save booking %s: %w", bookingID, err)
	}

	return nil
}

// SaveRoomStatus updates the room row and mirrors the status into the
// cache. A cache failure is logged only.
func (p *persisterImpl) SaveRoomStatus(ctx context.Context, roomID, status string) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SaveRoomStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.LogFieldRoomID, roomID)

	err = p.rooms.Update(ctx, map[string]any{roomModel.FieldStatus: status}, shared.FilterByID(roomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		return fmt.Errorf("failed to save room %s status: %w", roomID, err)
	}

	cacheKey := shared.BuildCacheKey(cacheRoomStatus, roomID)
	if cacheErr := p.cache.Save(ctx, cacheKey, status, p.cfg.Cache.TTL); cacheErr != nil {
		log.Warn().Err(cacheErr).Str(constant.LogFieldRoomID, roomID).Msg("failed to mirror room status to cache")
	}

	return nil
}

// CachedRoomStatus reads the mirrored status of a room.
func (p *persisterImpl) CachedRoomStatus(ctx context.Context, roomID string) (string, bool) {
	var status string

	err := p.cache.Get(ctx, shared.BuildCacheKey(cacheRoomStatus, roomID), &status)
	if err != nil {
		if !errors.Is(err, cache.Nil) {
			log.Warn().Err(err).Str(constant.LogFieldRoomID, roomID).Msg("failed to read cached room status")
		}

		return "", false
	}

	return status, roomModel.IsValidStatus(status)
}
