// Package alarm provides the in-process implementation of the one-shot
// wake-up primitive the reminder scheduler drives.
package alarm

import (
	"sync"
	"time"

	"github.com/Juhasen/ToDo/internal/service"
)

// Timer keeps one pending time.Timer per id. Re-registering an id stops
// and replaces the prior timer, so at most one wake-up is pending per id
// at any moment. Timers live in process memory only; the owner is
// expected to resweep after a restart.
type Timer struct {
	onFire func(service.NotificationPayload)

	mu     sync.Mutex
	timers map[uint]*time.Timer
}

// NewTimer builds an alarm whose fired wake-ups are delivered to onFire.
// onFire runs on the timer goroutine; it must not block for long.
func NewTimer(onFire func(service.NotificationPayload)) *Timer {
	return &Timer{
		onFire: onFire,
		timers: make(map[uint]*time.Timer),
	}
}

// Schedule registers the wake-up for id at the given time, replacing any
// prior registration for the same id.
func (t *Timer) Schedule(id uint, at time.Time, payload service.NotificationPayload) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prior, ok := t.timers[id]; ok {
		prior.Stop()
	}
	t.timers[id] = time.AfterFunc(time.Until(at), func() {
		t.mu.Lock()
		delete(t.timers, id)
		t.mu.Unlock()
		t.onFire(payload)
	})
	return nil
}

// Cancel stops the pending wake-up for id, if any.
func (t *Timer) Cancel(id uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}
}

// Pending reports how many wake-ups are currently registered.
func (t *Timer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
