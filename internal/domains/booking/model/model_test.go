package model_test

import (
	"testing"
	"time"

	"conroom/internal/domains/booking/model"
	"conroom/shared/constant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newBooking() model.Booking {
	return model.Booking{
		ID:            "b-1",
		RoomID:        "r-1",
		UserID:        "userA",
		StartTime:     start,
		EndTime:       start.Add(time.Hour),
		Status:        model.StatusConfirmed,
		PaymentStatus: model.PaymentApproved,
		DepositAmount: 25,
	}
}

func TestBooking_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr error
	}{
		{name: "valid", mutate: func(*model.Booking) {}},
		{name: "missing id", mutate: func(b *model.Booking) { b.ID = "" }, wantErr: model.ErrMissingID},
		{name: "missing room", mutate: func(b *model.Booking) { b.RoomID = "" }, wantErr: model.ErrMissingRoom},
		{name: "missing user", mutate: func(b *model.Booking) { b.UserID = "" }, wantErr: model.ErrMissingUser},
		{name: "end equals start", mutate: func(b *model.Booking) { b.EndTime = b.StartTime }, wantErr: model.ErrInvalidWindow},
		{name: "negative deposit", mutate: func(b *model.Booking) { b.DepositAmount = -1 }, wantErr: model.ErrNegativeDeposit},
		{name: "unknown status", mutate: func(b *model.Booking) { b.Status = "BOOKED" }, wantErr: model.ErrInvalidStatus},
		{name: "unknown payment", mutate: func(b *model.Booking) { b.PaymentStatus = "" }, wantErr: model.ErrInvalidPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBooking()
			tt.mutate(&b)

			assert.ErrorIs(t, b.Validate(), tt.wantErr)
		})
	}
}

func TestBooking_IsTerminal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{model.StatusConfirmed, false},
		{model.StatusPendingPayment, false},
		{model.StatusInUse, false},
		{model.StatusNoShow, true},
		{model.StatusCancelled, true},
		{model.StatusFinished, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			b := newBooking()
			b.Status = tt.status

			assert.Equal(t, tt.want, b.IsTerminal())
		})
	}
}

func TestBooking_Overlaps(t *testing.T) {
	b := newBooking()

	other := newBooking()
	other.ID = "b-2"
	other.StartTime = start.Add(30 * time.Minute)
	other.EndTime = start.Add(90 * time.Minute)
	assert.True(t, b.Overlaps(other))

	other.StartTime = b.EndTime
	other.EndTime = b.EndTime.Add(time.Hour)
	assert.False(t, b.Overlaps(other), "touching windows")

	other.StartTime = start
	other.EndTime = start.Add(time.Hour)
	other.RoomID = "r-2"
	assert.False(t, b.Overlaps(other), "different rooms")
}

func TestBooking_Contains(t *testing.T) {
	b := newBooking()

	assert.True(t, b.Contains(start))
	assert.True(t, b.Contains(start.Add(time.Hour)))
	assert.True(t, b.Contains(start.Add(10*time.Minute)))
	assert.False(t, b.Contains(start.Add(-time.Nanosecond)))
	assert.False(t, b.Contains(start.Add(time.Hour+time.Nanosecond)))
}

func TestBooking_Extend(t *testing.T) {
	b := newBooking()

	extended, err := b.Extend(30 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, start.Add(90*time.Minute), extended.EndTime)
	assert.Equal(t, start.Add(time.Hour), b.EndTime, "original is untouched")

	_, err = b.Extend(0)
	assert.ErrorIs(t, err, model.ErrInvalidExtension)

	b.Status = model.StatusFinished
	_, err = b.Extend(time.Minute)
	assert.ErrorIs(t, err, model.ErrTerminalExtension)
}

func TestChanges(t *testing.T) {
	status := model.StatusNoShow
	payment := model.PaymentForfeited
	at := start.Add(15 * time.Minute)

	changes := model.Changes{Status: &status, PaymentStatus: &payment, ModifiedBy: constant.SystemActor, ModifiedAt: at}
	assert.False(t, changes.IsEmpty())

	updated := changes.ApplyTo(newBooking())
	assert.Equal(t, model.StatusNoShow, updated.Status)
	assert.Equal(t, model.PaymentForfeited, updated.PaymentStatus)
	assert.Equal(t, constant.SystemActor, updated.ModifiedBy)
	assert.Equal(t, at, updated.ModifiedAt)

	assert.Equal(t, map[string]any{
		model.FieldStatus:        model.StatusNoShow,
		model.FieldPaymentStatus: model.PaymentForfeited,
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: constant.SystemActor,
	}, changes.Fields())

	empty := model.Changes{ModifiedBy: "x"}
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.Fields())
	assert.Equal(t, newBooking(), empty.ApplyTo(newBooking()))
}
