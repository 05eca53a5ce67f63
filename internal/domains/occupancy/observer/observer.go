package observer

import (
	"sync"

	"conroom/shared/logger"

	"github.com/pkg/errors"
)

// Subscription identifies one attached callback. The zero value is never
// issued.
type Subscription uint64

type subscriber struct {
	id Subscription
	fn func()
}

// Registry fans change notifications out to attached callbacks. Attaching
// the same function twice yields two independent subscriptions, each
// notified once per call.
type Registry struct {
	mu          sync.Mutex
	next        Subscription
	subscribers []subscriber
}

func New() *Registry {
	return &Registry{}
}

func (r *Registry) Attach(fn func()) Subscription {
	if fn == nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.subscribers = append(r.subscribers, subscriber{id: r.next, fn: fn})

	return r.next
}

func (r *Registry) Detach(sub Subscription) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.subscribers {
		if s.id == sub {
			r.subscribers = append(r.subscribers[:i:i], r.subscribers[i+1:]...)

			return true
		}
	}

	return false
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.subscribers)
}

// NotifyObservers calls every subscriber in attachment order on the calling
// goroutine. Callbacks may attach or detach; the change applies to the next
// notification. A panicking callback is logged and skipped.
func (r *Registry) NotifyObservers() {
	r.mu.Lock()
	subscribers := make([]subscriber, len(r.subscribers))
	copy(subscribers, r.subscribers)
	r.mu.Unlock()

	for _, s := range subscribers {
		notify(s)
	}
}

func notify(s subscriber) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorWithStack(errors.Errorf("observer %d panicked: %v", s.id, rec))
		}
	}()

	s.fn()
}
