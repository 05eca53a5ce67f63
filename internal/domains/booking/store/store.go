package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"conroom/internal/domains/booking/model"
	"conroom/internal/domains/booking/repository"
	"conroom/shared"
)

var errNoRepository = errors.New("booking repository is not configured")

// Bookings is the in-memory booking registry the occupancy engine reads
// from. Apply mutates a record without touching storage; persisting the
// same Changes is left to the caller.
type Bookings interface {
	Load(ctx context.Context, since time.Time) (int, error)
	Put(booking model.Booking) error
	FindByID(id string) (model.Booking, bool)
	Fetch(ctx context.Context, id string) (model.Booking, bool, error)
	FindByRoom(roomID string) []model.Booking
	All() []model.Booking
	Rooms() []string
	Apply(id string, changes model.Changes) (model.Booking, bool)
}

type storeImpl struct {
	mu     sync.RWMutex
	byID   map[string]model.Booking
	byRoom map[string][]string
	repo   repository.Booking
}

func New(repo repository.Booking) Bookings {
	return &storeImpl{
		byID:   map[string]model.Booking{},
		byRoom: map[string][]string{},
		repo:   repo,
	}
}

// Load replaces the registry with the active bookings held in storage.
func (s *storeImpl) Load(ctx context.Context, since time.Time) (int, error) {
	if s.repo == nil {
		return 0, errNoRepository
	}

	bookings, err := s.repo.GetAll(ctx, repository.FilterActive(since))
	if err != nil {
		return 0, fmt.Errorf("failed to load bookings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]model.Booking, len(bookings))
	s.byRoom = map[string][]string{}

	for _, booking := range bookings {
		s.putLocked(booking)
	}

	return len(s.byID), nil
}

func (s *storeImpl) Put(booking model.Booking) error {
	if err := booking.Validate(); err != nil {
		return fmt.Errorf("invalid booking %q: %w", booking.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if previous, ok := s.byID[booking.ID]; ok && previous.RoomID != booking.RoomID {
		s.unindexLocked(previous.RoomID, booking.ID)
	}

	s.putLocked(booking)

	return nil
}

func (s *storeImpl) putLocked(booking model.Booking) {
	if !slices.Contains(s.byRoom[booking.RoomID], booking.ID) {
		s.byRoom[booking.RoomID] = append(s.byRoom[booking.RoomID], booking.ID)
	}

	s.byID[booking.ID] = booking
}

func (s *storeImpl) unindexLocked(roomID, id string) {
	ids := slices.DeleteFunc(s.byRoom[roomID], func(v string) bool { return v == id })
	if len(ids) == 0 {
		delete(s.byRoom, roomID)

		return
	}

	s.byRoom[roomID] = ids
}

func (s *storeImpl) FindByID(id string) (model.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.byID[id]

	return booking, ok
}

// Fetch returns the booking from memory, falling back to storage for
// bookings created while their event was not consumed. Found bookings are
// kept in the registry.
func (s *storeImpl) Fetch(ctx context.Context, id string) (model.Booking, bool, error) {
	if booking, ok := s.FindByID(id); ok || s.repo == nil {
		return booking, ok, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return model.Booking{}, false, fmt.Errorf("failed to fetch booking: %w", err)
	}

	if booking.ID == "" {
		return model.Booking{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byID[id]; ok {
		return existing, true, nil
	}

	if err := booking.Validate(); err != nil {
		return model.Booking{}, false, fmt.Errorf("invalid booking %q: %w", id, err)
	}

	s.putLocked(booking)

	return booking, true, nil
}

// FindByRoom returns the room's bookings ordered by start time.
func (s *storeImpl) FindByRoom(roomID string) []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byRoom[roomID]
	bookings := make([]model.Booking, 0, len(ids))

	for _, id := range ids {
		bookings = append(bookings, s.byID[id])
	}

	sortBookings(bookings)

	return bookings
}

func (s *storeImpl) All() []model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]model.Booking, 0, len(s.byID))
	for _, booking := range s.byID {
		bookings = append(bookings, booking)
	}

	sortBookings(bookings)

	return bookings
}

func (s *storeImpl) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]string, 0, len(s.byRoom))
	for roomID := range s.byRoom {
		rooms = append(rooms, roomID)
	}

	slices.Sort(rooms)

	return rooms
}

func (s *storeImpl) Apply(id string, changes model.Changes) (model.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.byID[id]
	if !ok {
		return model.Booking{}, false
	}

	booking = changes.ApplyTo(booking)
	s.byID[id] = booking

	return booking, true
}

func sortBookings(bookings []model.Booking) {
	slices.SortFunc(bookings, func(a, b model.Booking) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})
}
