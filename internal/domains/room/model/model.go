package model

import "conroom/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID       = "id"
	FieldName     = "name"
	FieldLocation = "location"
	FieldCapacity = "capacity"
	FieldStatus   = "status"
)

// Room statuses. A room with no recorded status is AVAILABLE.
const (
	StatusAvailable   = "AVAILABLE"
	StatusInUse       = "IN_USE"
	StatusNoShow      = "NO_SHOW"
	StatusMaintenance = "MAINTENANCE"
	StatusDisabled    = "DISABLED"
)

type Room struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Location string `db:"location"`
	Capacity int    `db:"capacity"`
	Status   string `db:"status"`
	model.Metadata
}

func IsValidStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusInUse, StatusNoShow, StatusMaintenance, StatusDisabled:
		return true
	}

	return false
}

// IsAdministrative reports whether the status is set by staff rather than
// derived from bookings.
func IsAdministrative(status string) bool {
	return status == StatusMaintenance || status == StatusDisabled
}
