package status

import (
	"maps"
	"slices"
	"sync"

	roomModel "conroom/internal/domains/room/model"
)

// Store holds the live status of every room and the booking occupying it.
// Rooms never written are AVAILABLE.
type Store struct {
	mu        sync.RWMutex
	statuses  map[string]string
	occupants map[string]string
}

func New() *Store {
	return &Store{
		statuses:  map[string]string{},
		occupants: map[string]string{},
	}
}

func (s *Store) GetRoomStatus(roomID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if status, ok := s.statuses[roomID]; ok {
		return status
	}

	return roomModel.StatusAvailable
}

// SetStatus overwrites the room status. The occupant is dropped whenever the
// room leaves IN_USE, and an empty status forgets the room.
func (s *Store) SetStatus(roomID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setLocked(roomID, status)
}

func (s *Store) setLocked(roomID, status string) {
	if status != roomModel.StatusInUse {
		delete(s.occupants, roomID)
	}

	if status == "" {
		delete(s.statuses, roomID)

		return
	}

	s.statuses[roomID] = status
}

func (s *Store) MarkRoomVacant(roomID string) {
	s.SetStatus(roomID, roomModel.StatusAvailable)
}

func (s *Store) RegisterCheckIn(bookingID, roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses[roomID] = roomModel.StatusInUse
	s.occupants[roomID] = bookingID
}

// Occupant returns the booking currently holding an IN_USE room.
func (s *Store) Occupant(roomID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookingID, ok := s.occupants[roomID]

	return bookingID, ok
}

func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.statuses)
}

func (s *Store) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.statuses))
}

// Load replaces every status. Unknown status values are skipped.
func (s *Store) Load(statuses map[string]string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.statuses = make(map[string]string, len(statuses))
	s.occupants = map[string]string{}

	for roomID, status := range statuses {
		if roomModel.IsValidStatus(status) {
			s.statuses[roomID] = status
		}
	}

	return len(s.statuses)
}
