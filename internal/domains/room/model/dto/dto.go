package dto

type OccupancyRequest struct {
	SensorOccupied bool `json:"sensor_occupied"`
}

type RoomStatusResponse struct {
	RoomID    string `json:"room_id"`
	Status    string `json:"status"`
	BookingID string `json:"booking_id,omitempty"`
}

type RoomStatusesResponse struct {
	Rooms []RoomStatusResponse `json:"rooms"`
}
