package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Juhasen/ToDo/internal/model"
)

type staticVisibleLister struct {
	tasks []model.TaskWithAttachments
}

func (l staticVisibleLister) ListVisible(context.Context, string) ([]model.TaskWithAttachments, error) {
	return l.tasks, nil
}

func TestDigest_SkipsWhenNothingOpen(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	digest := NewDigestService(staticVisibleLister{tasks: []model.TaskWithAttachments{
		task(1, "done already", model.StatusDone, 0, 1),
	}}, notifier)

	if err := digest.Send(context.Background(), time.Now()); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(notifier.payloads) != 0 {
		t.Fatalf("expected no digest for an empty day")
	}
}

func TestDigest_ListsOpenTasksWithOverdueFlag(t *testing.T) {
	t.Parallel()

	now := time.Now()
	overdue := task(1, "water plants", model.StatusTodo, now.Add(-24*time.Hour).UnixMilli(), 1)
	upcoming := task(2, "pay rent", model.StatusTodo, now.Add(24*time.Hour).UnixMilli(), 2)

	notifier := &recordingNotifier{}
	digest := NewDigestService(staticVisibleLister{tasks: []model.TaskWithAttachments{overdue, upcoming}}, notifier)

	if err := digest.Send(context.Background(), now); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if len(notifier.payloads) != 1 {
		t.Fatalf("expected one digest message, got %d", len(notifier.payloads))
	}

	payload := notifier.payloads[0]
	if payload.TaskID != 0 {
		t.Fatalf("digest must use the reserved id 0, got %d", payload.TaskID)
	}
	if !strings.Contains(payload.Description, "water plants") ||
		!strings.Contains(payload.Description, "overdue") {
		t.Fatalf("overdue task not flagged:\n%s", payload.Description)
	}
	if !strings.Contains(payload.Description, "pay rent") {
		t.Fatalf("upcoming task missing:\n%s", payload.Description)
	}
}
