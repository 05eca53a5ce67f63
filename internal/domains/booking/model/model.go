package model

import (
	"errors"
	"time"

	"conroom/shared/constant"
	"conroom/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldRoomID        = "room_id"
	FieldUserID        = "user_id"
	FieldStartTime     = "start_time"
	FieldEndTime       = "end_time"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldDepositAmount = "deposit_amount"
)

const (
	StatusConfirmed      = "CONFIRMED"
	StatusPendingPayment = "PENDING_PAYMENT"
	StatusInUse          = "IN_USE"
	StatusNoShow         = "NO_SHOW"
	StatusCancelled      = "CANCELLED"
	StatusFinished       = "FINISHED"
)

const (
	PaymentPending   = "PENDING"
	PaymentApproved  = "APPROVED"
	PaymentFailed    = "FAILED"
	PaymentForfeited = "FORFEITED"
)

var (
	ErrMissingID         = errors.New("booking id is required")
	ErrMissingRoom       = errors.New("booking room is required")
	ErrMissingUser       = errors.New("booking user is required")
	ErrInvalidWindow     = errors.New("booking must end after it starts")
	ErrNegativeDeposit   = errors.New("booking deposit cannot be negative")
	ErrInvalidStatus     = errors.New("unknown booking status")
	ErrInvalidPayment    = errors.New("unknown payment status")
	ErrInvalidExtension  = errors.New("extension must be positive")
	ErrTerminalExtension = errors.New("cannot extend a closed booking")
)

type Booking struct {
	ID            string    `db:"id"             json:"id"`
	RoomID        string    `db:"room_id"        json:"room_id"`
	UserID        string    `db:"user_id"        json:"user_id"`
	StartTime     time.Time `db:"start_time"     json:"start_time"`
	EndTime       time.Time `db:"end_time"       json:"end_time"`
	Status        string    `db:"status"         json:"status"`
	PaymentStatus string    `db:"payment_status" json:"payment_status"`
	DepositAmount float64   `db:"deposit_amount" json:"deposit_amount"`
	model.Metadata
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusConfirmed, StatusPendingPayment, StatusInUse, StatusNoShow, StatusCancelled, StatusFinished:
		return true
	}

	return false
}

func IsValidPaymentStatus(status string) bool {
	switch status {
	case PaymentPending, PaymentApproved, PaymentFailed, PaymentForfeited:
		return true
	}

	return false
}

func (b *Booking) Validate() error {
	switch {
	case b.ID == constant.Empty:
		return ErrMissingID
	case b.RoomID == constant.Empty:
		return ErrMissingRoom
	case b.UserID == constant.Empty:
		return ErrMissingUser
	case !b.EndTime.After(b.StartTime):
		return ErrInvalidWindow
	case b.DepositAmount < 0:
		return ErrNegativeDeposit
	case !IsValidStatus(b.Status):
		return ErrInvalidStatus
	case !IsValidPaymentStatus(b.PaymentStatus):
		return ErrInvalidPayment
	}

	return nil
}

// IsTerminal reports whether the booking can no longer change state.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCancelled, StatusFinished, StatusNoShow:
		return true
	}

	return false
}

// Overlaps reports whether both bookings hold the same room at the same
// time. Touching windows do not overlap.
func (b *Booking) Overlaps(other Booking) bool {
	if b.RoomID != other.RoomID {
		return false
	}

	return b.StartTime.Before(other.EndTime) && other.StartTime.Before(b.EndTime)
}

// Contains reports whether t falls inside the booking window, bounds included.
func (b *Booking) Contains(t time.Time) bool {
	return !t.Before(b.StartTime) && !t.After(b.EndTime)
}

// Extend returns a copy of the booking ending d later.
func (b *Booking) Extend(d time.Duration) (Booking, error) {
	if d <= 0 {
		return Booking{}, ErrInvalidExtension
	}

	if b.IsTerminal() {
		return Booking{}, ErrTerminalExtension
	}

	extended := *b
	extended.EndTime = b.EndTime.Add(d)

	return extended, nil
}

// Changes is a set of field updates applied to a booking in memory and
// later persisted as the same column set.
type Changes struct {
	Status        *string
	PaymentStatus *string
	EndTime       *time.Time
	ModifiedBy    string
	ModifiedAt    time.Time
}

func (c Changes) IsEmpty() bool {
	return c.Status == nil && c.PaymentStatus == nil && c.EndTime == nil
}

// ApplyTo returns b with the changes applied.
func (c Changes) ApplyTo(b Booking) Booking {
	if c.Status != nil {
		b.Status = *c.Status
	}

	if c.PaymentStatus != nil {
		b.PaymentStatus = *c.PaymentStatus
	}

	if c.EndTime != nil {
		b.EndTime = *c.EndTime
	}

	if !c.IsEmpty() {
		b.ModifiedBy = c.ModifiedBy
		b.ModifiedAt = c.ModifiedAt
	}

	return b
}

// Fields returns the column map for a repository update.
func (c Changes) Fields() map[string]any {
	fields := map[string]any{}

	if c.Status != nil {
		fields[FieldStatus] = *c.Status
	}

	if c.PaymentStatus != nil {
		fields[FieldPaymentStatus] = *c.PaymentStatus
	}

	if c.EndTime != nil {
		fields[FieldEndTime] = *c.EndTime
	}

	if len(fields) > 0 {
		fields[constant.FieldModifiedAt] = c.ModifiedAt
		fields[constant.FieldModifiedBy] = c.ModifiedBy
	}

	return fields
}
