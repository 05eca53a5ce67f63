package countdown

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Entry is a scheduled no-show deadline for one booking.
type Entry struct {
	BookingID string
	RoomID    string
	Deadline  time.Time
	timer     clockwork.Timer
}

// Registry keeps at most one pending timer per booking.
type Registry struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries map[string]*Entry
}

func New(clock clockwork.Clock) *Registry {
	return &Registry{
		clock:   clock,
		entries: map[string]*Entry{},
	}
}

// Schedule arms fire to run at deadline, stopping any timer already held
// for the booking. A deadline in the past fires right away.
func (r *Registry) Schedule(bookingID, roomID string, deadline time.Time, fire func(entry *Entry)) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if previous, ok := r.entries[bookingID]; ok {
		previous.stop()
	}

	entry := &Entry{
		BookingID: bookingID,
		RoomID:    roomID,
		Deadline:  deadline,
	}
	r.entries[bookingID] = entry

	delay := deadline.Sub(r.clock.Now())
	if delay <= 0 {
		go fire(entry)

		return entry
	}

	entry.timer = r.clock.AfterFunc(delay, func() { fire(entry) })

	return entry
}

// Cancel stops and forgets the booking's timer. It reports whether a timer
// was pending; unknown or already fired bookings are ignored.
func (r *Registry) Cancel(bookingID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[bookingID]
	if !ok {
		return false
	}

	entry.stop()
	delete(r.entries, bookingID)

	return true
}

// Release forgets entry if it is still the booking's current timer. A false
// result means the entry was cancelled or replaced and must not act.
func (r *Registry) Release(entry *Entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries[entry.BookingID] != entry {
		return false
	}

	delete(r.entries, entry.BookingID)

	return true
}

func (r *Registry) Deadline(bookingID string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[bookingID]
	if !ok {
		return time.Time{}, false
	}

	return entry.Deadline, true
}

// Pending returns the booking ids with an armed timer, sorted.
func (r *Registry) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Sorted(maps.Keys(r.entries))
}

// Stop cancels every pending timer.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.entries {
		entry.stop()
		delete(r.entries, id)
	}
}

func (e *Entry) stop() {
	if e.timer != nil {
		e.timer.Stop()
	}
}
