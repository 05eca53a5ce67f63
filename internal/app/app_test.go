package app_test

import (
	"errors"
	"testing"
	"time"

	"conroom/config"
	otelMocks "conroom/infras/otel/mocks"
	"conroom/internal/app"
	bookingMocks "conroom/internal/domains/booking/mocks"
	bookingModel "conroom/internal/domains/booking/model"
	"conroom/internal/domains/booking/store"
	"conroom/internal/domains/occupancy/mocks"
	"conroom/internal/domains/occupancy/service"
	"conroom/internal/domains/occupancy/status"
	roomMocks "conroom/internal/domains/room/mocks"
	roomModel "conroom/internal/domains/room/model"
	"conroom/internal/handlers/consumer"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	bookingRepo *bookingMocks.MockBooking
	roomRepo    *roomMocks.MockRoom
	persister   *mocks.MockPersister
	statuses    *status.Store
	svc         service.Occupancy
	app         *app.App
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Occupancy.EarlyCheckInMinutes = 10
	cfg.Occupancy.LateCheckInMinutes = 15
	cfg.Occupancy.NoShowGraceMinutes = 15

	f := fixture{
		bookingRepo: bookingMocks.NewMockBooking(ctrl),
		roomRepo:    roomMocks.NewMockRoom(ctrl),
		persister:   mocks.NewMockPersister(ctrl),
		statuses:    status.New(),
	}

	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.persister.EXPECT().SaveRoomStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	bookings := store.New(f.bookingRepo)
	f.svc = service.New(cfg, clockwork.NewFakeClockAt(now), bookings, f.statuses, f.persister, publisher, otelMocks.NewOtel())
	t.Cleanup(f.svc.Close)

	f.app = app.New(cfg, nil, f.svc, bookings, f.statuses, f.roomRepo, f.persister, consumer.Handler{}, nil, otelMocks.NewOtel())

	return f
}

func activeBookings() []bookingModel.Booking {
	return []bookingModel.Booking{
		{
			ID: "b-1", RoomID: "r-101", UserID: "userA",
			StartTime: now.Add(-30 * time.Minute), EndTime: now.Add(30 * time.Minute),
			Status: bookingModel.StatusInUse, PaymentStatus: bookingModel.PaymentApproved,
		},
		{
			ID: "b-2", RoomID: "r-102", UserID: "userB",
			StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour),
			Status: bookingModel.StatusConfirmed, PaymentStatus: bookingModel.PaymentApproved,
		},
	}
}

func TestWarm(t *testing.T) {
	f := setup(t)

	f.bookingRepo.EXPECT().GetAll(gomock.Any(), gomock.Any()).Return(activeBookings(), nil)
	f.roomRepo.EXPECT().GetAll(gomock.Any(), gomock.Any()).Return([]roomModel.Room{
		{ID: "r-101", Status: roomModel.StatusAvailable},
		{ID: "r-102", Status: roomModel.StatusNoShow},
		{ID: "r-103", Status: roomModel.StatusMaintenance},
	}, nil)

	require.NoError(t, f.app.Warm(t.Context()))

	assert.Equal(t, roomModel.StatusInUse, f.svc.GetRoomStatus("r-101"))
	assert.Equal(t, roomModel.StatusAvailable, f.svc.GetRoomStatus("r-102"))
	assert.Equal(t, roomModel.StatusMaintenance, f.svc.GetRoomStatus("r-103"))

	occupant, ok := f.svc.Occupant("r-101")
	require.True(t, ok)
	assert.Equal(t, "b-1", occupant)

	deadline, ok := f.svc.Deadline("b-2")
	require.True(t, ok)
	assert.Equal(t, now.Add(time.Hour+15*time.Minute), deadline)

	_, ok = f.svc.Deadline("b-1")
	assert.False(t, ok)
}

func TestWarm_RoomsFromCache(t *testing.T) {
	f := setup(t)

	f.bookingRepo.EXPECT().GetAll(gomock.Any(), gomock.Any()).Return(activeBookings(), nil)
	f.roomRepo.EXPECT().GetAll(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	f.persister.EXPECT().CachedRoomStatus(gomock.Any(), "r-101").Return(roomModel.StatusInUse, true)
	f.persister.EXPECT().CachedRoomStatus(gomock.Any(), "r-102").Return(roomModel.StatusDisabled, true)

	require.NoError(t, f.app.Warm(t.Context()))

	assert.Equal(t, roomModel.StatusInUse, f.svc.GetRoomStatus("r-101"))
	assert.Equal(t, roomModel.StatusDisabled, f.svc.GetRoomStatus("r-102"))
}

func TestWarm_BookingsUnavailable(t *testing.T) {
	f := setup(t)

	f.bookingRepo.EXPECT().GetAll(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	require.Error(t, f.app.Warm(t.Context()))
	assert.Empty(t, f.svc.RoomStatuses())
}
