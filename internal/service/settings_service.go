package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Juhasen/ToDo/internal/model"
)

// Preference keys. The advance time is stored as int64 milliseconds.
const (
	KeyNotificationAdvanceTime = "notification_advance_time"
	keyHideDoneTasks           = "hide_done_tasks"
	selectedCategoryPrefix     = "selected_category_"
)

// DefaultAdvanceTime is the lead time before a deadline at which a
// reminder fires unless the user changed it.
const DefaultAdvanceTime = 30 * time.Minute

// KV is the raw durable preference storage the service consumes.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// SettingsService is the preference store: typed getters with defaults
// over raw key/value storage, and a change channel for the few consumers
// that need to react to edits. Readers that can tolerate staleness should
// simply re-read.
type SettingsService struct {
	kv KV

	mu   sync.Mutex
	subs []chan string
}

func NewSettingsService(kv KV) *SettingsService {
	return &SettingsService{kv: kv}
}

// NotificationAdvanceTime returns the configured reminder lead time.
func (s *SettingsService) NotificationAdvanceTime(ctx context.Context) (time.Duration, error) {
	raw, ok, err := s.kv.Get(ctx, KeyNotificationAdvanceTime)
	if err != nil {
		return 0, err
	}
	if !ok {
		return DefaultAdvanceTime, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		return DefaultAdvanceTime, nil
	}
	return time.Duration(ms) * time.Millisecond, nil
}

func (s *SettingsService) SetNotificationAdvanceTime(ctx context.Context, d time.Duration) error {
	if err := s.kv.Set(ctx, KeyNotificationAdvanceTime, strconv.FormatInt(d.Milliseconds(), 10)); err != nil {
		return err
	}
	s.notify(KeyNotificationAdvanceTime)
	return nil
}

// HideDoneTasks reports whether completed tasks are hidden from the list.
func (s *SettingsService) HideDoneTasks(ctx context.Context) (bool, error) {
	return s.getBool(ctx, keyHideDoneTasks, false)
}

func (s *SettingsService) SetHideDoneTasks(ctx context.Context, hide bool) error {
	if err := s.kv.Set(ctx, keyHideDoneTasks, strconv.FormatBool(hide)); err != nil {
		return err
	}
	s.notify(keyHideDoneTasks)
	return nil
}

// CategorySelected reports whether tasks of the category are visible.
func (s *SettingsService) CategorySelected(ctx context.Context, category model.Category) (bool, error) {
	return s.getBool(ctx, selectedCategoryPrefix+string(category), true)
}

func (s *SettingsService) SetCategorySelected(ctx context.Context, category model.Category, selected bool) error {
	key := selectedCategoryPrefix + string(category)
	if err := s.kv.Set(ctx, key, strconv.FormatBool(selected)); err != nil {
		return err
	}
	s.notify(key)
	return nil
}

// SetAllCategoriesSelected toggles visibility of every category at once.
func (s *SettingsService) SetAllCategoriesSelected(ctx context.Context, selected bool) error {
	for _, category := range model.Categories() {
		if err := s.SetCategorySelected(ctx, category, selected); err != nil {
			return err
		}
	}
	return nil
}

// CategoryVisibility snapshots the per-category visibility map used by
// the query engine.
func (s *SettingsService) CategoryVisibility(ctx context.Context) (map[model.Category]bool, error) {
	out := make(map[model.Category]bool, len(model.Categories()))
	for _, category := range model.Categories() {
		visible, err := s.CategorySelected(ctx, category)
		if err != nil {
			return nil, err
		}
		out[category] = visible
	}
	return out, nil
}

// Subscribe returns a channel receiving the key of every committed change
// and a cancel func. Sends never block; a slow consumer misses keys
// rather than stalling writers.
func (s *SettingsService) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

func (s *SettingsService) getBool(ctx context.Context, key string, def bool) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return def, nil
	}
	return value, nil
}

func (s *SettingsService) notify(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		select {
		case sub <- key:
		default:
		}
	}
}
