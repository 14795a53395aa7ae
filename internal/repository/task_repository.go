package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Juhasen/ToDo/internal/model"
)

// TaskRepository is the entity store for tasks and their attachments.
// Multi-row writes (first save of a draft with staged attachments, task
// deletion with its cascade) commit as one transaction.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask inserts a draft task, assigns its surrogate id, re-keys every
// staged attachment to that id and inserts them, all in one transaction.
// A draft whose id already exists in the store is rejected.
func (r *TaskRepository) CreateTask(ctx context.Context, pending model.PendingTask) (model.TaskWithAttachments, error) {
	task := pending.Task
	attachments := make([]model.Attachment, len(pending.StagedAttachments))
	copy(attachments, pending.StagedAttachments)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if task.ID != 0 {
			var count int64
			if err := tx.Model(&model.Task{}).Where("id = ?", task.ID).Count(&count).Error; err != nil {
				return fmt.Errorf("%w: check task id: %w", model.ErrStorage, err)
			}
			if count > 0 {
				return fmt.Errorf("%w: id %d", model.ErrTaskExists, task.ID)
			}
		}
		if err := tx.Create(&task).Error; err != nil {
			return fmt.Errorf("%w: create task: %w", model.ErrStorage, err)
		}
		for i := range attachments {
			attachments[i].ID = 0 // staged ids are temporary local identities
			attachments[i].TaskID = task.ID
		}
		if len(attachments) > 0 {
			if err := tx.Create(&attachments).Error; err != nil {
				return fmt.Errorf("%w: create attachments: %w", model.ErrStorage, err)
			}
		}
		return nil
	})
	if err != nil {
		return model.TaskWithAttachments{}, err
	}

	return model.TaskWithAttachments{Task: task, Attachments: attachments}, nil
}

// UpdateTask replaces the row matching task.ID.
func (r *TaskRepository) UpdateTask(ctx context.Context, task model.Task) error {
	if task.ID == 0 {
		return fmt.Errorf("%w: zero id", model.ErrTaskNotFound)
	}
	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", task.ID).
		Select("Title", "Description", "Status", "Category", "Notify", "DueAt").
		Updates(task)
	if res.Error != nil {
		return fmt.Errorf("%w: update task: %w", model.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", model.ErrTaskNotFound, task.ID)
	}
	return nil
}

// DeleteTask removes the task row and every attachment row keyed to it in
// one transaction, so no orphaned attachments survive under any
// interleaving.
func (r *TaskRepository) DeleteTask(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
			return fmt.Errorf("%w: delete attachments: %w", model.ErrStorage, err)
		}
		res := tx.Where("id = ?", id).Delete(&model.Task{})
		if res.Error != nil {
			return fmt.Errorf("%w: delete task: %w", model.ErrStorage, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: id %d", model.ErrTaskNotFound, id)
		}
		return nil
	})
}

// GetTask returns the task with the given id, or nil when absent.
func (r *TaskRepository) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, id).Error
	switch {
	case err == nil:
		return &task, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: get task: %w", model.ErrStorage, err)
	}
}

// GetTaskWithAttachments returns the read aggregate for one task, its
// attachments in insertion order, or nil when the task is absent.
func (r *TaskRepository) GetTaskWithAttachments(ctx context.Context, id uint) (*model.TaskWithAttachments, error) {
	task, err := r.GetTask(ctx, id)
	if err != nil || task == nil {
		return nil, err
	}
	var attachments []model.Attachment
	if err := r.db.WithContext(ctx).Where("task_id = ?", id).Order("id ASC").
		Find(&attachments).Error; err != nil {
		return nil, fmt.Errorf("%w: get attachments: %w", model.ErrStorage, err)
	}
	return &model.TaskWithAttachments{Task: *task, Attachments: attachments}, nil
}

// ListAllWithAttachments returns every task joined with its attachments.
// Ordering of the result is left to the query engine.
func (r *TaskRepository) ListAllWithAttachments(ctx context.Context) ([]model.TaskWithAttachments, error) {
	var (
		tasks       []model.Task
		attachments []model.Attachment
	)
	// A transaction gives both reads the same snapshot, so a task is never
	// observed without attachments mid-insert of its first batch.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").Find(&tasks).Error; err != nil {
			return fmt.Errorf("%w: list tasks: %w", model.ErrStorage, err)
		}
		if err := tx.Order("id ASC").Find(&attachments).Error; err != nil {
			return fmt.Errorf("%w: list attachments: %w", model.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	byTask := make(map[uint][]model.Attachment)
	for _, a := range attachments {
		byTask[a.TaskID] = append(byTask[a.TaskID], a)
	}
	out := make([]model.TaskWithAttachments, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, model.TaskWithAttachments{Task: t, Attachments: byTask[t.ID]})
	}
	return out, nil
}

// AddAttachment inserts an attachment row for an existing task.
func (r *TaskRepository) AddAttachment(ctx context.Context, attachment model.Attachment) (model.Attachment, error) {
	if attachment.TaskID == 0 {
		return model.Attachment{}, fmt.Errorf("%w: attachment without task id", model.ErrTaskInvalid)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Task{}).Where("id = ?", attachment.TaskID).Count(&count).Error; err != nil {
			return fmt.Errorf("%w: check task: %w", model.ErrStorage, err)
		}
		if count == 0 {
			return fmt.Errorf("%w: id %d", model.ErrTaskNotFound, attachment.TaskID)
		}
		if err := tx.Create(&attachment).Error; err != nil {
			return fmt.Errorf("%w: create attachment: %w", model.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return model.Attachment{}, err
	}
	return attachment, nil
}

// RemoveAttachment deletes an attachment row. Removing an id that does not
// exist is a no-op success.
func (r *TaskRepository) RemoveAttachment(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
		return fmt.Errorf("%w: delete attachment: %w", model.ErrStorage, err)
	}
	return nil
}
