package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/Juhasen/ToDo/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func mustCreateTask(t *testing.T, repo *TaskRepository, pending model.PendingTask) model.TaskWithAttachments {
	t.Helper()

	saved, err := repo.CreateTask(context.Background(), pending)
	if err != nil {
		t.Fatalf("failed to prepare task: %v", err)
	}
	return saved
}

func stagedAttachment(name string) model.Attachment {
	return model.Attachment{
		FileName: name,
		FilePath: "content://attachments/" + name,
		MimeType: "application/pdf",
		FileSize: 1024,
	}
}

func TestCreateTask_AssignsID(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	saved := mustCreateTask(t, repo, model.PendingTask{
		Task: model.Task{Title: "buy milk", Category: model.CategoryShopping},
	})

	if saved.Task.ID == 0 {
		t.Fatalf("expected a surrogate id to be assigned")
	}
	if saved.Task.CreatedAt == 0 {
		t.Fatalf("expected createdAt to be stamped")
	}
}

func TestCreateTask_RekeysStagedAttachments(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	saved := mustCreateTask(t, repo, model.PendingTask{
		Task: model.Task{Title: "thesis"},
		StagedAttachments: []model.Attachment{
			stagedAttachment("draft.pdf"),
			stagedAttachment("notes.txt"),
			stagedAttachment("figures.zip"),
		},
	})

	got, err := repo.GetTaskWithAttachments(context.Background(), saved.Task.ID)
	if err != nil {
		t.Fatalf("GetTaskWithAttachments returned error: %v", err)
	}
	if got == nil {
		t.Fatalf("expected task to be readable after create")
	}
	if len(got.Attachments) != 3 {
		t.Fatalf("expected 3 attachments, got %d", len(got.Attachments))
	}
	for _, a := range got.Attachments {
		if a.TaskID != saved.Task.ID {
			t.Fatalf("attachment %q keyed to %d, want %d", a.FileName, a.TaskID, saved.Task.ID)
		}
	}
	// Insertion order must survive the read.
	if got.Attachments[0].FileName != "draft.pdf" || got.Attachments[2].FileName != "figures.zip" {
		t.Fatalf("attachments out of insertion order: %+v", got.Attachments)
	}
}

func TestCreateTask_ExistingIDRejected(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	saved := mustCreateTask(t, repo, model.PendingTask{Task: model.Task{Title: "first"}})

	_, err := repo.CreateTask(context.Background(), model.PendingTask{
		Task: model.Task{ID: saved.Task.ID, Title: "imposter"},
	})
	if !errors.Is(err, model.ErrTaskExists) {
		t.Fatalf("expected ErrTaskExists, got %v", err)
	}
}

func TestDeleteTask_CascadesAttachments(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	doomed := mustCreateTask(t, repo, model.PendingTask{
		Task:              model.Task{Title: "doomed"},
		StagedAttachments: []model.Attachment{stagedAttachment("a.png"), stagedAttachment("b.png")},
	})
	survivor := mustCreateTask(t, repo, model.PendingTask{
		Task:              model.Task{Title: "survivor"},
		StagedAttachments: []model.Attachment{stagedAttachment("keep.png")},
	})

	if err := repo.DeleteTask(context.Background(), doomed.Task.ID); err != nil {
		t.Fatalf("DeleteTask returned error: %v", err)
	}

	all, err := repo.ListAllWithAttachments(context.Background())
	if err != nil {
		t.Fatalf("ListAllWithAttachments returned error: %v", err)
	}
	for _, twa := range all {
		if twa.Task.ID == doomed.Task.ID {
			t.Fatalf("deleted task still listed")
		}
		for _, a := range twa.Attachments {
			if a.TaskID == doomed.Task.ID {
				t.Fatalf("orphaned attachment %q survived the cascade", a.FileName)
			}
		}
	}
	if len(all) != 1 || all[0].Task.ID != survivor.Task.ID || len(all[0].Attachments) != 1 {
		t.Fatalf("unrelated task was disturbed: %+v", all)
	}
}

func TestDeleteTask_UnknownID(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	err := repo.DeleteTask(context.Background(), 404)
	if !errors.Is(err, model.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestUpdateTask_ReplacesRow(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	saved := mustCreateTask(t, repo, model.PendingTask{Task: model.Task{Title: "old title"}})

	due := int64(1_900_000_000_000)
	updated := saved.Task
	updated.Title = "new title"
	updated.Status = model.StatusDone
	updated.DueAt = &due
	if err := repo.UpdateTask(context.Background(), updated); err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}

	got, err := repo.GetTask(context.Background(), saved.Task.ID)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if got.Title != "new title" || got.Status != model.StatusDone {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.DueAt == nil || *got.DueAt != due {
		t.Fatalf("due time not applied: %+v", got.DueAt)
	}
	if got.CreatedAt != saved.Task.CreatedAt {
		t.Fatalf("createdAt must be immutable, was %d now %d", saved.Task.CreatedAt, got.CreatedAt)
	}
}

func TestUpdateTask_UnknownID(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	err := repo.UpdateTask(context.Background(), model.Task{ID: 404, Title: "ghost"})
	if !errors.Is(err, model.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestGetTask_AbsentIsNil(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	got, err := repo.GetTask(context.Background(), 404)
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent task, got %+v", got)
	}
}

func TestAddAttachment_RequiresExistingTask(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	attachment := stagedAttachment("late.png")
	attachment.TaskID = 404
	_, err := repo.AddAttachment(context.Background(), attachment)
	if !errors.Is(err, model.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestRemoveAttachment_Idempotent(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(newTestDB(t))

	saved := mustCreateTask(t, repo, model.PendingTask{
		Task:              model.Task{Title: "with file"},
		StagedAttachments: []model.Attachment{stagedAttachment("once.png")},
	})

	got, err := repo.GetTaskWithAttachments(context.Background(), saved.Task.ID)
	if err != nil || len(got.Attachments) != 1 {
		t.Fatalf("setup read failed: %v %+v", err, got)
	}
	attachmentID := got.Attachments[0].ID

	if err := repo.RemoveAttachment(context.Background(), attachmentID); err != nil {
		t.Fatalf("first remove returned error: %v", err)
	}
	if err := repo.RemoveAttachment(context.Background(), attachmentID); err != nil {
		t.Fatalf("second remove must be a no-op success, got %v", err)
	}
	if err := repo.RemoveAttachment(context.Background(), 9999); err != nil {
		t.Fatalf("removing unknown id must be a no-op success, got %v", err)
	}
}
