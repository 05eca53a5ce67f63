package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"conroom/internal/domains/booking/mocks"
	"conroom/internal/domains/booking/model"
	"conroom/internal/domains/booking/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var start = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func booking(id, roomID string, offset time.Duration) model.Booking {
	return model.Booking{
		ID:            id,
		RoomID:        roomID,
		UserID:        "userA",
		StartTime:     start.Add(offset),
		EndTime:       start.Add(offset + time.Hour),
		Status:        model.StatusConfirmed,
		PaymentStatus: model.PaymentApproved,
	}
}

func TestStore_PutAndFind(t *testing.T) {
	s := store.New(nil)

	require.NoError(t, s.Put(booking("b-2", "r-1", 2*time.Hour)))
	require.NoError(t, s.Put(booking("b-1", "r-1", 0)))
	require.NoError(t, s.Put(booking("b-3", "r-2", time.Hour)))

	got, ok := s.FindByID("b-1")
	assert.True(t, ok)
	assert.Equal(t, "r-1", got.RoomID)

	_, ok = s.FindByID("missing")
	assert.False(t, ok)

	room := s.FindByRoom("r-1")
	require.Len(t, room, 2)
	assert.Equal(t, "b-1", room[0].ID)
	assert.Equal(t, "b-2", room[1].ID)

	assert.Empty(t, s.FindByRoom("r-404"))
	assert.Equal(t, []string{"r-1", "r-2"}, s.Rooms())
	assert.Len(t, s.All(), 3)
}

func TestStore_PutRejectsInvalid(t *testing.T) {
	s := store.New(nil)

	invalid := booking("b-1", "r-1", 0)
	invalid.EndTime = invalid.StartTime

	err := s.Put(invalid)
	assert.ErrorIs(t, err, model.ErrInvalidWindow)
	assert.Empty(t, s.All())
}

func TestStore_PutMovesRoom(t *testing.T) {
	s := store.New(nil)

	require.NoError(t, s.Put(booking("b-1", "r-1", 0)))
	require.NoError(t, s.Put(booking("b-1", "r-1", 0)))
	assert.Len(t, s.FindByRoom("r-1"), 1, "re-put does not duplicate")

	require.NoError(t, s.Put(booking("b-1", "r-2", 0)))
	assert.Empty(t, s.FindByRoom("r-1"))
	assert.Len(t, s.FindByRoom("r-2"), 1)
	assert.Equal(t, []string{"r-2"}, s.Rooms())
}

func TestStore_Apply(t *testing.T) {
	s := store.New(nil)
	require.NoError(t, s.Put(booking("b-1", "r-1", 0)))

	status := model.StatusInUse
	updated, ok := s.Apply("b-1", model.Changes{Status: &status, ModifiedBy: "userA", ModifiedAt: start})
	require.True(t, ok)
	assert.Equal(t, model.StatusInUse, updated.Status)

	stored, _ := s.FindByID("b-1")
	assert.Equal(t, updated, stored)

	_, ok = s.Apply("missing", model.Changes{Status: &status})
	assert.False(t, ok)
}

func TestStore_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockBooking(ctrl)
	s := store.New(repo)

	require.NoError(t, s.Put(booking("stale", "r-9", 0)))

	repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any()).
		Return([]model.Booking{booking("b-1", "r-1", 0), booking("b-2", "r-2", 0)}, nil)

	count, err := s.Load(context.Background(), start)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, ok := s.FindByID("stale")
	assert.False(t, ok, "load replaces the registry")
	assert.Equal(t, []string{"r-1", "r-2"}, s.Rooms())

	repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("database error"))

	_, err = s.Load(context.Background(), start)
	assert.Error(t, err)
	assert.Len(t, s.All(), 2, "failed load keeps the registry")
}

func TestStore_LoadWithoutRepository(t *testing.T) {
	_, err := store.New(nil).Load(context.Background(), start)
	assert.Error(t, err)
}

func TestStore_Fetch(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(repo *mocks.MockBooking, s store.Bookings)
		wantFound bool
		wantErr   bool
	}{
		{
			name: "served from memory",
			setup: func(_ *mocks.MockBooking, s store.Bookings) {
				require.NoError(t, s.Put(booking("b-1", "r-1", 0)))
			},
			wantFound: true,
		},
		{
			name: "loaded from storage",
			setup: func(repo *mocks.MockBooking, _ store.Bookings) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking("b-1", "r-1", 0), nil)
			},
			wantFound: true,
		},
		{
			name: "missing everywhere",
			setup: func(repo *mocks.MockBooking, _ store.Bookings) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
		},
		{
			name: "storage error",
			setup: func(repo *mocks.MockBooking, _ store.Bookings) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockBooking(ctrl)
			s := store.New(repo)
			tt.setup(repo, s)

			got, found, err := s.Fetch(context.Background(), "b-1")

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantFound, found)

			if tt.wantFound {
				assert.Equal(t, "b-1", got.ID)

				_, ok := s.FindByID("b-1")
				assert.True(t, ok)
			}
		})
	}
}

func TestStore_FetchWithoutRepository(t *testing.T) {
	_, found, err := store.New(nil).Fetch(context.Background(), "b-1")

	require.NoError(t, err)
	assert.False(t, found)
}
