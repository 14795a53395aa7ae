package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Juhasen/ToDo/internal/model"
)

// NotificationPayload is the minimal data a fired reminder needs for
// presentation. It is captured at schedule time so a fired wake-up never
// depends on the store being reachable.
type NotificationPayload struct {
	TaskID      uint
	Title       string
	Description string
}

// Alarm is the one-shot wake-up primitive the scheduler drives. The id
// space is Task.ID; re-registering an id replaces the prior wake-up, and
// cancelling an unknown id is a no-op. An implementation that may not
// register exact-time wake-ups returns model.ErrExactAlarmPermission from
// Schedule.
type Alarm interface {
	Schedule(id uint, at time.Time, payload NotificationPayload) error
	Cancel(id uint)
}

// ReminderService turns a task's deadline and the advance-time preference
// into one pending wake-up per task id, with cancel/reschedule semantics
// that survive edits. It never self-refreshes: the write path invokes
// Schedule after every committed mutation and Cancel on deletion.
type ReminderService struct {
	alarm Alarm
	now   func() time.Time

	mu      sync.Mutex
	pending map[uint]time.Time // fire time per scheduled task id
}

func NewReminderService(alarm Alarm) *ReminderService {
	return &ReminderService{
		alarm:   alarm,
		now:     time.Now,
		pending: make(map[uint]time.Time),
	}
}

// Schedule registers (or re-registers) the wake-up for the task at
// dueAt - advance. When the task has notifications disabled, no deadline,
// or a fire time that is not in the future, any existing wake-up for the
// id is cancelled instead, so stale firings never outlive an edit.
// Scheduling is idempotent: equal inputs leave exactly one pending
// wake-up.
func (s *ReminderService) Schedule(task model.Task, advance time.Duration) error {
	if task.ID == 0 {
		return fmt.Errorf("%w: schedule for unsaved task", model.ErrTaskInvalid)
	}

	due, ok := task.Due()
	if !task.Notify || !ok {
		s.Cancel(task.ID)
		return nil
	}
	fireAt := due.Add(-advance)
	if !fireAt.After(s.now()) {
		s.Cancel(task.ID)
		return nil
	}

	payload := NotificationPayload{
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
	}
	if err := s.alarm.Schedule(task.ID, fireAt, payload); err != nil {
		if errors.Is(err, model.ErrExactAlarmPermission) {
			// Never downgrade to inexact delivery behind the caller's back.
			return err
		}
		return fmt.Errorf("schedule reminder %d: %w", task.ID, err)
	}

	s.mu.Lock()
	s.pending[task.ID] = fireAt
	s.mu.Unlock()
	return nil
}

// Cancel removes any pending wake-up for id. Cancelling an unscheduled id
// is a no-op.
func (s *ReminderService) Cancel(id uint) {
	s.alarm.Cancel(id)
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

// FireAt returns the pending fire time for id, if any.
func (s *ReminderService) FireAt(id uint) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.pending[id]
	return at, ok
}

// Notifier consumes notification events for presentation.
type Notifier interface {
	Notify(payload NotificationPayload) error
}

// Dispatcher reacts to fired wake-ups: one notification event per task
// id, re-fires replacing rather than stacking the prior event. Replace
// semantics live in the Notifier; the dispatcher clears scheduler state
// and forwards the captured payload.
type Dispatcher struct {
	reminders *ReminderService
	notifier  Notifier
}

func NewDispatcher(reminders *ReminderService, notifier Notifier) *Dispatcher {
	return &Dispatcher{reminders: reminders, notifier: notifier}
}

// HandleFired is the alarm backend's fire callback.
func (d *Dispatcher) HandleFired(payload NotificationPayload) error {
	d.reminders.mu.Lock()
	delete(d.reminders.pending, payload.TaskID)
	d.reminders.mu.Unlock()

	if err := d.notifier.Notify(payload); err != nil {
		return fmt.Errorf("notify task %d: %w", payload.TaskID, err)
	}
	return nil
}
