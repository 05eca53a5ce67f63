package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"conroom/config"
	"conroom/infras/otel"
	bookingModel "conroom/internal/domains/booking/model"
	"conroom/internal/domains/booking/store"
	"conroom/internal/domains/occupancy/countdown"
	"conroom/internal/domains/occupancy/events"
	"conroom/internal/domains/occupancy/model"
	"conroom/internal/domains/occupancy/observer"
	"conroom/internal/domains/occupancy/persistence"
	"conroom/internal/domains/occupancy/status"
	roomModel "conroom/internal/domains/room/model"
	"conroom/shared/constant"
	"conroom/shared/logger"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const componentName = "occupancy"

type Occupancy interface {
	GetRoomStatus(roomID string) string
	RoomStatuses() map[string]string
	Occupant(roomID string) (string, bool)
	MarkRoomVacant(ctx context.Context, roomID string)
	RegisterCheckIn(ctx context.Context, bookingID, roomID string)

	StartNoShowCountdown(ctx context.Context, bookingID, roomID string, startTime time.Time)
	CancelNoShowCountdown(ctx context.Context, bookingID string) bool
	Deadline(bookingID string) (time.Time, bool)
	ForceNoShow(ctx context.Context, bookingID, roomID, userID string)
	RecoverCountdowns(ctx context.Context) int

	CheckIn(ctx context.Context, bookingID, roomID, userID string) (bookingModel.Booking, error)

	UpdateOccupancy(ctx context.Context, roomID string, sensorSaysOccupied bool)
	Resync(ctx context.Context) int
	StartResyncWorker(ctx context.Context, interval time.Duration)

	Attach(fn func()) observer.Subscription
	Detach(sub observer.Subscription) bool
	NotifyObservers()

	FindBooking(bookingID string) (bookingModel.Booking, bool)
	RegisterBooking(ctx context.Context, booking bookingModel.Booking) error

	Now() time.Time
	Close()
}

// serviceImpl serialises every transition behind mu. Storage writes, event
// publishing and observer callbacks happen after mu is released.
type serviceImpl struct {
	mu sync.Mutex

	earlyCheckIn time.Duration
	lateCheckIn  time.Duration
	noShowGrace  time.Duration

	clock     clockwork.Clock
	bookings  store.Bookings
	statuses  *status.Store
	timers    *countdown.Registry
	observers *observer.Registry
	noShows   map[string]struct{}

	persister persistence.Persister
	publisher events.Publisher
	otel      otel.Otel
	log       zerolog.Logger
}

func New(
	cfg *config.Config,
	clock clockwork.Clock,
	bookings store.Bookings,
	statuses *status.Store,
	persister persistence.Persister,
	publisher events.Publisher,
	otel otel.Otel,
) Occupancy {
	return &serviceImpl{
		earlyCheckIn: cfg.EarlyCheckIn(),
		lateCheckIn:  cfg.LateCheckIn(),
		noShowGrace:  cfg.NoShowGrace(),
		clock:        clock,
		bookings:     bookings,
		statuses:     statuses,
		timers:       countdown.New(clock),
		observers:    observer.New(),
		noShows:      map[string]struct{}{},
		persister:    persister,
		publisher:    publisher,
		otel:         otel,
		log:          logger.Component(componentName),
	}
}

type roomChange struct {
	roomID string
	status string
}

// effects collects what a locked transition must persist and announce.
type effects struct {
	bookingID string
	changes   bookingModel.Changes
	rooms     []roomChange
	events    []events.Event
}

func (e *effects) empty() bool {
	return e.bookingID == constant.Empty && len(e.rooms) == 0
}

func (s *serviceImpl) Now() time.Time {
	return s.clock.Now()
}

func (s *serviceImpl) GetRoomStatus(roomID string) string {
	return s.statuses.GetRoomStatus(roomID)
}

func (s *serviceImpl) RoomStatuses() map[string]string {
	return s.statuses.Snapshot()
}

func (s *serviceImpl) Occupant(roomID string) (string, bool) {
	return s.statuses.Occupant(roomID)
}

func (s *serviceImpl) MarkRoomVacant(ctx context.Context, roomID string) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkRoomVacant")
	defer scope.End()

	if roomID == constant.Empty {
		s.log.Warn().Msg("ignoring vacate without room")

		return
	}

	var eff effects

	s.mu.Lock()
	s.setRoomLocked(&eff, roomID, roomModel.StatusAvailable, constant.Empty, s.clock.Now())
	s.mu.Unlock()

	s.commit(ctx, eff)
}

// RegisterCheckIn marks the room occupied by the booking and stops the
// booking's countdown. The booking record itself is left untouched.
func (s *serviceImpl) RegisterCheckIn(ctx context.Context, bookingID, roomID string) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RegisterCheckIn")
	defer scope.End()

	if bookingID == constant.Empty || roomID == constant.Empty {
		s.log.Warn().Str(constant.LogFieldBookingID, bookingID).Str(constant.LogFieldRoomID, roomID).Msg("ignoring incomplete check-in registration")

		return
	}

	var eff effects

	s.mu.Lock()
	s.timers.Cancel(bookingID)
	s.setRoomLocked(&eff, roomID, roomModel.StatusInUse, bookingID, s.clock.Now())
	s.mu.Unlock()

	s.commit(ctx, eff)
}

func (s *serviceImpl) StartNoShowCountdown(ctx context.Context, bookingID, roomID string, startTime time.Time) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".StartNoShowCountdown")
	defer scope.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.startCountdownLocked(bookingID, roomID, startTime)
}

// startCountdownLocked reports whether a timer was armed. A zero startTime
// means the booking's own start.
func (s *serviceImpl) startCountdownLocked(bookingID, roomID string, startTime time.Time) bool {
	booking, ok := s.bookings.FindByID(bookingID)
	if !ok {
		s.log.Debug().Str(constant.LogFieldBookingID, bookingID).Msg("countdown skipped, unknown booking")

		return false
	}

	if _, marked := s.noShows[bookingID]; marked || booking.Status == bookingModel.StatusInUse || booking.IsTerminal() {
		s.log.Debug().Str(constant.LogFieldBookingID, bookingID).Str(constant.LogFieldStatus, booking.Status).Msg("countdown skipped, booking already settled")

		return false
	}

	if startTime.IsZero() {
		startTime = booking.StartTime
	}

	deadline := startTime.Add(s.noShowGrace)
	if !s.clock.Now().Before(deadline) {
		s.log.Debug().Str(constant.LogFieldBookingID, bookingID).Time(constant.LogFieldDeadline, deadline).Msg("countdown skipped, deadline passed")

		return false
	}

	room := s.resolveRoom(booking, roomID)
	s.timers.Schedule(bookingID, room, deadline, s.onDeadline)

	s.log.Debug().
		Str(constant.LogFieldBookingID, bookingID).
		Str(constant.LogFieldRoomID, room).
		Time(constant.LogFieldDeadline, deadline).
		Msg("no-show countdown started")

	return true
}

func (s *serviceImpl) CancelNoShowCountdown(ctx context.Context, bookingID string) bool {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelNoShowCountdown")
	defer scope.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timers.Cancel(bookingID)
}

func (s *serviceImpl) Deadline(bookingID string) (time.Time, bool) {
	return s.timers.Deadline(bookingID)
}

// onDeadline runs on the timer goroutine. Entries cancelled or replaced
// after the timer fired are dropped by Release.
func (s *serviceImpl) onDeadline(entry *countdown.Entry) {
	ctx, scope := s.otel.NewScope(context.Background(), constant.OtelServiceScopeName, constant.OtelServiceScopeName+".NoShowDeadline")
	defer scope.End()

	s.mu.Lock()
	if !s.timers.Release(entry) {
		s.mu.Unlock()

		return
	}

	eff := s.markNoShowLocked(entry.BookingID, entry.RoomID, constant.SystemActor)
	s.mu.Unlock()

	s.commit(ctx, eff)
}

func (s *serviceImpl) ForceNoShow(ctx context.Context, bookingID, roomID, userID string) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ForceNoShow")
	defer scope.End()

	actor := userID
	if actor == constant.Empty {
		actor = constant.SystemActor
	}

	s.log.Info().
		Str(constant.LogFieldBookingID, bookingID).
		Str(constant.LogFieldRoomID, roomID).
		Str(constant.LogFieldUserID, actor).
		Msg("forced no-show requested")

	s.mu.Lock()
	eff := s.markNoShowLocked(bookingID, roomID, actor)
	s.mu.Unlock()

	s.commit(ctx, eff)
}

// markNoShowLocked forfeits the booking unless it is unknown, checked in,
// closed, or already marked. The room turns NO_SHOW unless staff hold it
// or another booking occupies it.
func (s *serviceImpl) markNoShowLocked(bookingID, roomID, actor string) effects {
	var eff effects

	if _, marked := s.noShows[bookingID]; marked {
		return eff
	}

	booking, ok := s.bookings.FindByID(bookingID)
	if !ok {
		s.log.Warn().Str(constant.LogFieldBookingID, bookingID).Msg("no-show skipped, unknown booking")

		return eff
	}

	if booking.Status == bookingModel.StatusInUse || booking.IsTerminal() {
		s.log.Debug().Str(constant.LogFieldBookingID, bookingID).Str(constant.LogFieldStatus, booking.Status).Msg("no-show skipped, booking already settled")

		return eff
	}

	now := s.clock.Now()
	noShow := bookingModel.StatusNoShow
	forfeited := bookingModel.PaymentForfeited
	changes := bookingModel.Changes{
		Status:        &noShow,
		PaymentStatus: &forfeited,
		ModifiedBy:    actor,
		ModifiedAt:    now,
	}

	s.timers.Cancel(bookingID)
	s.bookings.Apply(bookingID, changes)
	s.noShows[bookingID] = struct{}{}

	room := s.resolveRoom(booking, roomID)

	eff.bookingID = bookingID
	eff.changes = changes
	eff.events = append(eff.events, events.NewEvent(events.TypeBookingNoShow, bookingID, room, booking.UserID, noShow, now))

	current := s.statuses.GetRoomStatus(room)
	occupant, occupied := s.statuses.Occupant(room)

	switch {
	case roomModel.IsAdministrative(current):
		s.log.Info().Str(constant.LogFieldRoomID, room).Str(constant.LogFieldStatus, current).Msg("room status kept on no-show")
	case occupied && occupant != bookingID:
		s.log.Info().Str(constant.LogFieldRoomID, room).Str(constant.LogFieldBookingID, occupant).Msg("room held by another booking, status kept on no-show")
	default:
		s.setRoomLocked(&eff, room, roomModel.StatusNoShow, bookingID, now)
	}

	s.log.Info().
		Str(constant.LogFieldBookingID, bookingID).
		Str(constant.LogFieldRoomID, room).
		Str(constant.LogFieldUserID, actor).
		Msg("booking marked no-show, deposit forfeited")

	return eff
}

func (s *serviceImpl) CheckIn(ctx context.Context, bookingID, roomID, userID string) (res bookingModel.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckIn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, _, fetchErr := s.bookings.Fetch(ctx, bookingID); fetchErr != nil {
		s.log.Warn().Err(fetchErr).Str(constant.LogFieldBookingID, bookingID).Msg("booking lookup in storage failed")
	}

	s.mu.Lock()
	res, eff, err := s.checkInLocked(bookingID, roomID, userID)
	s.mu.Unlock()

	if err != nil {
		s.log.Info().
			Err(err).
			Str(constant.LogFieldBookingID, bookingID).
			Str(constant.LogFieldUserID, userID).
			Msg("check-in rejected")

		return bookingModel.Booking{}, err
	}

	s.commit(ctx, eff)

	s.log.Info().
		Str(constant.LogFieldBookingID, bookingID).
		Str(constant.LogFieldRoomID, res.RoomID).
		Str(constant.LogFieldUserID, userID).
		Msg("booking checked in")

	return res, nil
}

func (s *serviceImpl) checkInLocked(bookingID, roomID, userID string) (bookingModel.Booking, effects, error) {
	booking, ok := s.bookings.FindByID(bookingID)
	if !ok {
		return booking, effects{}, model.ErrBookingNotFound
	}

	if booking.UserID != userID {
		return booking, effects{}, model.ErrNotBookingOwner
	}

	if booking.Status != bookingModel.StatusConfirmed {
		return booking, effects{}, model.ErrBookingNotConfirmed
	}

	now := s.clock.Now()

	if now.Before(booking.StartTime.Add(-s.earlyCheckIn)) {
		return booking, effects{}, model.ErrCheckInTooEarly
	}

	if now.After(booking.StartTime.Add(s.lateCheckIn)) {
		return booking, effects{}, model.ErrCheckInExpired
	}

	room := s.resolveRoom(booking, roomID)
	inUse := bookingModel.StatusInUse
	changes := bookingModel.Changes{
		Status:     &inUse,
		ModifiedBy: userID,
		ModifiedAt: now,
	}

	s.timers.Cancel(bookingID)
	updated, _ := s.bookings.Apply(bookingID, changes)

	eff := effects{
		bookingID: bookingID,
		changes:   changes,
		events:    []events.Event{events.NewEvent(events.TypeBookingCheckedIn, bookingID, room, userID, inUse, now)},
	}
	s.setRoomLocked(&eff, room, roomModel.StatusInUse, bookingID, now)

	return updated, eff, nil
}

// UpdateOccupancy rederives the room status from its bookings. The sensor
// hint is recorded but never overrides booking data.
func (s *serviceImpl) UpdateOccupancy(ctx context.Context, roomID string, sensorSaysOccupied bool) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateOccupancy")
	defer scope.End()

	scope.SetAttribute("sensor.occupied", sensorSaysOccupied)

	if roomID == constant.Empty {
		return
	}

	var eff effects

	s.mu.Lock()
	status := s.recomputeLocked(&eff, roomID, s.clock.Now())
	s.mu.Unlock()

	if sensorSaysOccupied != (status == roomModel.StatusInUse) {
		s.log.Debug().Str(constant.LogFieldRoomID, roomID).Bool("sensor", sensorSaysOccupied).Str(constant.LogFieldStatus, status).Msg("sensor disagrees with bookings")
	}

	s.commit(ctx, eff)
}

// Resync recomputes every room known to the bookings or the status store
// and returns how many changed.
func (s *serviceImpl) Resync(ctx context.Context) int {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resync")
	defer scope.End()

	rooms := append(s.bookings.Rooms(), s.statuses.Rooms()...)
	slices.Sort(rooms)
	rooms = slices.Compact(rooms)

	var eff effects

	s.mu.Lock()
	now := s.clock.Now()
	for _, roomID := range rooms {
		s.recomputeLocked(&eff, roomID, now)
	}
	s.mu.Unlock()

	s.commit(ctx, eff)

	if len(eff.rooms) > 0 {
		s.log.Info().Int("changed", len(eff.rooms)).Int("rooms", len(rooms)).Msg("occupancy resynced")
	}

	return len(eff.rooms)
}

// recomputeLocked returns the room status after recomputation. Rooms under
// MAINTENANCE or DISABLED are left alone.
func (s *serviceImpl) recomputeLocked(eff *effects, roomID string, now time.Time) string {
	current := s.statuses.GetRoomStatus(roomID)
	if roomModel.IsAdministrative(current) {
		return current
	}

	target := roomModel.StatusAvailable
	occupant := constant.Empty

	if active, ok := s.activeBooking(roomID, now); ok && active.Status == bookingModel.StatusInUse {
		target = roomModel.StatusInUse
		occupant = active.ID
	}

	s.setRoomLocked(eff, roomID, target, occupant, now)

	return target
}

// activeBooking finds the booking whose window holds now, preferring one
// that is checked in.
func (s *serviceImpl) activeBooking(roomID string, now time.Time) (bookingModel.Booking, bool) {
	var (
		found  bookingModel.Booking
		exists bool
	)

	for _, booking := range s.bookings.FindByRoom(roomID) {
		if booking.Status == bookingModel.StatusCancelled || booking.Status == bookingModel.StatusNoShow || !booking.Contains(now) {
			continue
		}

		if booking.Status == bookingModel.StatusInUse {
			return booking, true
		}

		if !exists {
			found, exists = booking, true
		}
	}

	return found, exists
}

func (s *serviceImpl) StartResyncWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.log.Warn().Dur("interval", interval).Msg("resync worker disabled")

		return
	}

	ticker := s.clock.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				s.Resync(ctx)
			}
		}
	}()

	s.log.Info().Dur("interval", interval).Msg("resync worker started")
}

// RecoverCountdowns arms a countdown for every confirmed booking, e.g.
// after a restart lost the in-memory timers.
func (s *serviceImpl) RecoverCountdowns(ctx context.Context) int {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecoverCountdowns")
	defer scope.End()

	recovered := 0

	s.mu.Lock()
	for _, booking := range s.bookings.All() {
		if booking.Status == bookingModel.StatusConfirmed && s.startCountdownLocked(booking.ID, booking.RoomID, booking.StartTime) {
			recovered++
		}
	}
	s.mu.Unlock()

	s.log.Info().Int("recovered", recovered).Msg("no-show countdowns recovered")

	return recovered
}

func (s *serviceImpl) Attach(fn func()) observer.Subscription {
	return s.observers.Attach(fn)
}

func (s *serviceImpl) Detach(sub observer.Subscription) bool {
	return s.observers.Detach(sub)
}

func (s *serviceImpl) NotifyObservers() {
	s.observers.NotifyObservers()
}

func (s *serviceImpl) FindBooking(bookingID string) (bookingModel.Booking, bool) {
	return s.bookings.FindByID(bookingID)
}

// RegisterBooking adds a new booking and starts its countdown when it is
// confirmed. Bookings already known are left as they are, so redelivered
// events are harmless.
func (s *serviceImpl) RegisterBooking(ctx context.Context, booking bookingModel.Booking) (err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RegisterBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings.FindByID(booking.ID); exists {
		s.log.Debug().Str(constant.LogFieldBookingID, booking.ID).Msg("booking already registered")

		return nil
	}

	if err = s.bookings.Put(booking); err != nil {
		return fmt.Errorf("failed to register booking: %w", err)
	}

	if booking.Status == bookingModel.StatusConfirmed {
		s.startCountdownLocked(booking.ID, booking.RoomID, booking.StartTime)
	}

	return nil
}

func (s *serviceImpl) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timers.Stop()
}

// resolveRoom returns the booking's room. A differing caller room is
// logged and ignored.
func (s *serviceImpl) resolveRoom(booking bookingModel.Booking, roomID string) string {
	if roomID != constant.Empty && roomID != booking.RoomID {
		s.log.Warn().
			Str(constant.LogFieldBookingID, booking.ID).
			Str(constant.LogFieldRoomID, roomID).
			Str("bookingRoomID", booking.RoomID).
			Msg("room does not match booking, using booking room")
	}

	return booking.RoomID
}

func (s *serviceImpl) setRoomLocked(eff *effects, roomID, status, bookingID string, now time.Time) {
	current := s.statuses.GetRoomStatus(roomID)

	if status == roomModel.StatusInUse {
		s.statuses.RegisterCheckIn(bookingID, roomID)
	} else if current != status {
		s.statuses.SetStatus(roomID, status)
	}

	if current == status {
		return
	}

	eff.rooms = append(eff.rooms, roomChange{roomID: roomID, status: status})
	eff.events = append(eff.events, events.NewEvent(events.TypeRoomStatusChanged, bookingID, roomID, constant.Empty, status, now))
}

// commit persists, publishes and notifies for a finished transition.
// Failures are logged; the in-memory state already moved on.
func (s *serviceImpl) commit(ctx context.Context, eff effects) {
	if eff.empty() {
		return
	}

	ctx = context.WithoutCancel(ctx)

	if eff.bookingID != constant.Empty {
		if err := s.persister.SaveBooking(ctx, eff.bookingID, eff.changes); err != nil {
			s.log.Error().Err(err).Str(constant.LogFieldBookingID, eff.bookingID).Msg("failed to persist booking")
		}
	}

	for _, room := range eff.rooms {
		if err := s.persister.SaveRoomStatus(ctx, room.roomID, room.status); err != nil {
			s.log.Error().Err(err).Str(constant.LogFieldRoomID, room.roomID).Msg("failed to persist room status")
		}
	}

	if len(eff.events) > 0 {
		if err := s.publisher.Publish(ctx, eff.events...); err != nil {
			s.log.Error().Err(err).Int("events", len(eff.events)).Msg("failed to publish occupancy events")
		}
	}

	s.observers.NotifyObservers()
}
