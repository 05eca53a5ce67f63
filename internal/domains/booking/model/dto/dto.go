package dto

import (
	"time"

	"conroom/internal/domains/booking/model"
	"conroom/shared/constant"
	gDto "conroom/shared/dto"
	gModel "conroom/shared/model"
	"conroom/shared/timezone"
)

type CheckInRequest struct {
	RoomID string `json:"room_id" validate:"omitempty,max=64"`
	UserID string `json:"user_id" validate:"required,max=64"`
}

type ForceNoShowRequest struct {
	RoomID string `json:"room_id" validate:"omitempty,max=64"`
	UserID string `json:"user_id" validate:"required,max=64"`
}

// CountdownRequest starts a no-show countdown. StartTime defaults to the
// booking's own start time.
type CountdownRequest struct {
	RoomID    string `json:"room_id"    validate:"omitempty,max=64"`
	StartTime string `json:"start_time" validate:"omitempty,rfc3339"`
}

func (c *CountdownRequest) Start(fallback time.Time) time.Time {
	if c.StartTime == constant.Empty {
		return fallback
	}

	start, err := time.Parse(constant.DateFormat, c.StartTime)
	if err != nil {
		return fallback
	}

	return start
}

type BookingResponse struct {
	ID            string  `json:"id"`
	RoomID        string  `json:"room_id"`
	UserID        string  `json:"user_id"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	DepositAmount float64 `json:"deposit_amount"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.UserID = model.UserID
	r.StartTime = timezone.Format(model.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(model.EndTime, constant.DateFormat)
	r.Status = model.Status
	r.PaymentStatus = model.PaymentStatus
	r.DepositAmount = model.DepositAmount
	r.Metadata.FromModel(model.Metadata)
}

type CountdownResponse struct {
	BookingID        string `json:"booking_id"`
	Deadline         string `json:"deadline"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

func (r *CountdownResponse) FromDeadline(bookingID string, deadline, now time.Time) {
	r.BookingID = bookingID
	r.Deadline = timezone.Format(deadline, constant.DateFormat)

	remaining := deadline.Sub(now)
	if remaining < 0 {
		remaining = 0
	}

	r.RemainingSeconds = int64(remaining / time.Second)
}

// BookingCreatedEvent is the payload published by the booking system
// when a reservation is made.
type BookingCreatedEvent struct {
	ID            string    `json:"id"`
	RoomID        string    `json:"room_id"`
	UserID        string    `json:"user_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	DepositAmount float64   `json:"deposit_amount"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"`
}

func (e *BookingCreatedEvent) ToModel() model.Booking {
	status := e.Status
	if status == constant.Empty {
		status = model.StatusConfirmed
	}

	payment := e.PaymentStatus
	if payment == constant.Empty {
		payment = model.PaymentPending
	}

	createdBy := e.CreatedBy
	if createdBy == constant.Empty {
		createdBy = e.UserID
	}

	return model.Booking{
		ID:            e.ID,
		RoomID:        e.RoomID,
		UserID:        e.UserID,
		StartTime:     e.StartTime,
		EndTime:       e.EndTime,
		Status:        status,
		PaymentStatus: payment,
		DepositAmount: e.DepositAmount,
		Metadata: gModel.Metadata{
			CreatedAt:  e.CreatedAt,
			ModifiedAt: e.CreatedAt,
			CreatedBy:  createdBy,
			ModifiedBy: createdBy,
		},
	}
}
