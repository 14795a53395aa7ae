package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Juhasen/ToDo/internal/model"
	"github.com/Juhasen/ToDo/internal/repository"
)

// TaskService is the write path over the entity store. It validates
// drafts, serializes mutations per task id, and invokes the reminder
// scheduler strictly after each committed write so a rolled-back task
// never acquires a wake-up.
type TaskService struct {
	repo      *repository.TaskRepository
	settings  *SettingsService
	reminders *ReminderService

	locks sync.Map // task id -> *sync.Mutex
}

func NewTaskService(repo *repository.TaskRepository, settings *SettingsService, reminders *ReminderService) *TaskService {
	return &TaskService{repo: repo, settings: settings, reminders: reminders}
}

// CreateTask persists a draft with its staged attachments and schedules
// the reminder for the committed task.
func (s *TaskService) CreateTask(ctx context.Context, pending model.PendingTask) (model.TaskWithAttachments, error) {
	if err := validateTask(pending.Task); err != nil {
		return model.TaskWithAttachments{}, err
	}

	saved, err := s.repo.CreateTask(ctx, pending)
	if err != nil {
		return model.TaskWithAttachments{}, err
	}

	if err := s.syncReminder(ctx, saved.Task); err != nil {
		return saved, err
	}
	return saved, nil
}

// UpdateTask replaces the stored task and re-derives its reminder. Every
// edit goes through here so a moved deadline or disabled notification
// always cancels or replaces the stale wake-up.
func (s *TaskService) UpdateTask(ctx context.Context, task model.Task) error {
	if err := validateTask(task); err != nil {
		return err
	}

	unlock := s.lockTask(task.ID)
	defer unlock()
	return s.updateLocked(ctx, task)
}

// updateLocked commits the row and re-derives the reminder. The caller
// holds the task's write lock.
func (s *TaskService) updateLocked(ctx context.Context, task model.Task) error {
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return err
	}
	return s.syncReminder(ctx, task)
}

// DeleteTask removes the task with its attachment cascade and cancels any
// pending reminder.
func (s *TaskService) DeleteTask(ctx context.Context, id uint) error {
	unlock := s.lockTask(id)
	defer unlock()

	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.reminders.Cancel(id)
	return nil
}

// SetStatus flips completion state (a completed task keeps its reminder;
// the deadline did not move). The read and the write share the task's
// lock, so concurrent status edits cannot interleave and lose one.
func (s *TaskService) SetStatus(ctx context.Context, id uint, status model.Status) error {
	unlock := s.lockTask(id)
	defer unlock()

	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: id %d", model.ErrTaskNotFound, id)
	}
	task.Status = status
	return s.updateLocked(ctx, *task)
}

func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	return s.repo.GetTask(ctx, id)
}

func (s *TaskService) GetTaskWithAttachments(ctx context.Context, id uint) (*model.TaskWithAttachments, error) {
	return s.repo.GetTaskWithAttachments(ctx, id)
}

// AddAttachment stores a new attachment row for an existing task.
func (s *TaskService) AddAttachment(ctx context.Context, attachment model.Attachment) (model.Attachment, error) {
	unlock := s.lockTask(attachment.TaskID)
	defer unlock()
	return s.repo.AddAttachment(ctx, attachment)
}

// RemoveAttachment deletes an attachment row; unknown ids are a no-op.
func (s *TaskService) RemoveAttachment(ctx context.Context, id uint) error {
	return s.repo.RemoveAttachment(ctx, id)
}

// ListVisible composes the store, the preference store and the query
// engine into the ordered, filtered task list.
func (s *TaskService) ListVisible(ctx context.Context, search string) ([]model.TaskWithAttachments, error) {
	tasks, err := s.repo.ListAllWithAttachments(ctx)
	if err != nil {
		return nil, err
	}
	hideDone, err := s.settings.HideDoneTasks(ctx)
	if err != nil {
		return nil, err
	}
	visibility, err := s.settings.CategoryVisibility(ctx)
	if err != nil {
		return nil, err
	}
	return VisibleTasks(tasks, Filter{
		Search:             search,
		CategoryVisibility: visibility,
		HideDone:           hideDone,
	}), nil
}

// ResyncReminders re-derives every wake-up from the store. The alarm
// backend keeps no durable state, so this runs at process start, on a
// fixed cadence, and after the advance-time preference changes. Each task
// is re-read under its write lock immediately before scheduling, so an
// edit that commits and cancels while the sweep runs is never undone by
// a stale snapshot.
func (s *TaskService) ResyncReminders(ctx context.Context) error {
	all, err := s.repo.ListAllWithAttachments(ctx)
	if err != nil {
		return fmt.Errorf("resync reminders: %w", err)
	}
	advance, err := s.settings.NotificationAdvanceTime(ctx)
	if err != nil {
		return err
	}
	for _, twa := range all {
		if err := s.resyncOne(ctx, twa.Task.ID, advance); err != nil {
			return err
		}
	}
	return nil
}

func (s *TaskService) resyncOne(ctx context.Context, id uint, advance time.Duration) error {
	unlock := s.lockTask(id)
	defer unlock()

	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if task == nil || !task.Notify {
		s.reminders.Cancel(id)
		return nil
	}
	return s.reminders.Schedule(*task, advance)
}

// syncReminder runs after a committed write: schedule when notifications
// are on, cancel otherwise.
func (s *TaskService) syncReminder(ctx context.Context, task model.Task) error {
	if !task.Notify {
		s.reminders.Cancel(task.ID)
		return nil
	}
	advance, err := s.settings.NotificationAdvanceTime(ctx)
	if err != nil {
		return err
	}
	return s.reminders.Schedule(task, advance)
}

// lockTask serializes mutations of one task id.
func (s *TaskService) lockTask(id uint) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func validateTask(task model.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("%w: empty title", model.ErrTaskInvalid)
	}
	return nil
}
