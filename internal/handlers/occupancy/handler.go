package occupancy

import (
	"maps"
	"net/http"
	"slices"

	"conroom/infras/otel"
	"conroom/internal/domains/booking/model/dto"
	"conroom/internal/domains/occupancy/model"
	"conroom/internal/domains/occupancy/service"
	roomDto "conroom/internal/domains/room/model/dto"
	"conroom/shared/constant"
	"conroom/shared/failure"
	"conroom/shared/validator"
	"conroom/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const errNoCountdown = "No countdown is running for this booking"

type Handler struct {
	service service.Occupancy
	otel    otel.Otel
}

func New(service service.Occupancy, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Get("/status", handler.GetRoomStatuses)
		routerGroup.Get("/{id}/status", handler.GetRoomStatus)
		routerGroup.Post("/{id}/vacate", handler.MarkRoomVacant)
		routerGroup.Post("/{id}/occupancy", handler.UpdateOccupancy)
	})

	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/{id}/check-in", handler.CheckIn)
		routerGroup.Post("/{id}/no-show", handler.ForceNoShow)
		routerGroup.Post("/{id}/countdown", handler.StartCountdown)
		routerGroup.Get("/{id}/countdown", handler.GetCountdown)
	})
}

// GetRoomStatuses returns every room with a recorded status.
// @Summary Get all room statuses
// @Tags Room
// @Produce json
// @Success 200 {object} roomDto.RoomStatusesResponse
// @Router /v1/rooms/status [get]
func (handler *Handler) GetRoomStatuses(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomStatuses")
	defer scope.End()

	res := roomDto.RoomStatusesResponse{Rooms: []roomDto.RoomStatusResponse{}}

	for _, roomID := range slices.Sorted(maps.Keys(handler.service.RoomStatuses())) {
		res.Rooms = append(res.Rooms, handler.roomStatus(roomID))
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetRoomStatus returns the status of a single room. Unknown rooms are AVAILABLE.
// @Summary Get room status
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} roomDto.RoomStatusResponse
// @Router /v1/rooms/{id}/status [get]
func (handler *Handler) GetRoomStatus(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	response.WithJSON(w, http.StatusOK, handler.roomStatus(id))
}

// MarkRoomVacant releases a room.
// @Summary Mark a room vacant
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} roomDto.RoomStatusResponse
// @Router /v1/rooms/{id}/vacate [post]
func (handler *Handler) MarkRoomVacant(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkRoomVacant")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	handler.service.MarkRoomVacant(ctx, id)

	scope.AddEvent("Room vacated " + id)

	response.WithJSON(w, http.StatusOK, handler.roomStatus(id))
}

// UpdateOccupancy recomputes a room from its bookings.
// @Summary Update room occupancy
// @Description The sensor reading is advisory; bookings decide the status.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body roomDto.OccupancyRequest true "Occupancy Request"
// @Success 200 {object} roomDto.RoomStatusResponse
// @Failure 400 {object} response.Error
// @Router /v1/rooms/{id}/occupancy [post]
func (handler *Handler) UpdateOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateOccupancy")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := roomDto.OccupancyRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	handler.service.UpdateOccupancy(ctx, id, req.SensorOccupied)

	response.WithJSON(w, http.StatusOK, handler.roomStatus(id))
}

// CheckIn checks a user into their booking.
// @Summary Check in to a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CheckInRequest true "Check-in Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 410 {object} response.Error
// @Failure 425 {object} response.Error
// @Router /v1/bookings/{id}/check-in [post]
func (handler *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckIn")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CheckInRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.CheckIn(ctx, id, req.RoomID, req.UserID)
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str(constant.LogFieldBookingID, id).Msg("failed to check in")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking checked in by user " + req.UserID)

	res := dto.BookingResponse{}
	res.FromModel(booking)

	response.WithJSON(w, http.StatusOK, res)
}

// ForceNoShow marks a booking as a no-show right away.
// @Summary Force a no-show
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.ForceNoShowRequest true "No-show Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id}/no-show [post]
func (handler *Handler) ForceNoShow(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ForceNoShow")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ForceNoShowRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if _, ok := handler.service.FindBooking(id); !ok {
		response.WithError(w, model.ErrBookingNotFound)

		return
	}

	handler.service.ForceNoShow(ctx, id, req.RoomID, req.UserID)

	booking, _ := handler.service.FindBooking(id)

	res := dto.BookingResponse{}
	res.FromModel(booking)

	response.WithJSON(w, http.StatusOK, res)
}

// StartCountdown (re)starts the no-show countdown of a booking.
// @Summary Start a no-show countdown
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CountdownRequest true "Countdown Request"
// @Success 201 {object} dto.CountdownResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/countdown [post]
func (handler *Handler) StartCountdown(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".StartCountdown")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CountdownRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, ok := handler.service.FindBooking(id)
	if !ok {
		response.WithError(w, model.ErrBookingNotFound)

		return
	}

	handler.service.StartNoShowCountdown(ctx, id, req.RoomID, req.Start(booking.StartTime))

	deadline, ok := handler.service.Deadline(id)
	if !ok {
		response.WithError(w, failure.Conflict(errNoCountdown))

		return
	}

	res := dto.CountdownResponse{}
	res.FromDeadline(id, deadline, handler.service.Now())

	response.WithJSON(w, http.StatusCreated, res)
}

// GetCountdown reports the pending no-show deadline of a booking.
// @Summary Get a no-show countdown
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.CountdownResponse
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id}/countdown [get]
func (handler *Handler) GetCountdown(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCountdown")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	deadline, ok := handler.service.Deadline(id)
	if !ok {
		response.WithError(w, failure.NotFound(errNoCountdown))

		return
	}

	res := dto.CountdownResponse{}
	res.FromDeadline(id, deadline, handler.service.Now())

	response.WithJSON(w, http.StatusOK, res)
}

func (handler *Handler) roomStatus(roomID string) roomDto.RoomStatusResponse {
	res := roomDto.RoomStatusResponse{
		RoomID: roomID,
		Status: handler.service.GetRoomStatus(roomID),
	}

	if occupant, ok := handler.service.Occupant(roomID); ok {
		res.BookingID = occupant
	}

	return res
}
