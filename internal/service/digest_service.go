package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Juhasen/ToDo/internal/model"
)

// VisibleLister yields the ordered, preference-filtered task list.
type VisibleLister interface {
	ListVisible(ctx context.Context, search string) ([]model.TaskWithAttachments, error)
}

// DigestService renders a once-a-day overview of open tasks and pushes it
// through the Notifier. The digest reuses notification id 0, so a new day
// replaces yesterday's message instead of stacking.
type DigestService struct {
	lister   VisibleLister
	notifier Notifier
}

func NewDigestService(lister VisibleLister, notifier Notifier) *DigestService {
	return &DigestService{lister: lister, notifier: notifier}
}

// Send builds and delivers the digest for now. No open tasks means no
// message.
func (s *DigestService) Send(ctx context.Context, now time.Time) error {
	visible, err := s.lister.ListVisible(ctx, "")
	if err != nil {
		return fmt.Errorf("digest: %w", err)
	}

	var b strings.Builder
	open := 0
	for _, t := range visible {
		if t.Task.Status == model.StatusDone {
			continue
		}
		open++
		line := "• " + strings.TrimSpace(t.Task.Title)
		if t.Task.Category != model.CategoryNormal {
			line += fmt.Sprintf(" (%s)", strings.ToLower(string(t.Task.Category)))
		}
		if due, ok := t.Task.Due(); ok {
			if t.Task.IsOverdue(now) {
				line += fmt.Sprintf(" — overdue since %s", due.Format("2006-01-02 15:04"))
			} else {
				line += fmt.Sprintf(" — due %s", due.Format("2006-01-02 15:04"))
			}
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if open == 0 {
		return nil
	}

	payload := NotificationPayload{
		TaskID:      0, // digest slot, distinct from every task id
		Title:       fmt.Sprintf("Open tasks for %s", now.Format("02.01.2006")),
		Description: strings.TrimRight(b.String(), "\n"),
	}
	if err := s.notifier.Notify(payload); err != nil {
		return fmt.Errorf("digest: %w", err)
	}
	return nil
}
