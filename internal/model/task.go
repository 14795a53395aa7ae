package model

import "time"

// Task is a single to-do item. Timestamps are epoch milliseconds; a zero
// ID means the task has not been persisted yet.
type Task struct {
	ID          uint     `gorm:"primaryKey"`
	Title       string   `gorm:"not null"`
	Description string
	CreatedAt   int64    `gorm:"autoCreateTime:milli"`
	Status      Status   `gorm:"type:text;default:TODO"`
	Category    Category `gorm:"type:text;default:NORMAL"`
	Notify      bool     `gorm:"default:false"`
	DueAt       *int64   // nil when the task has no deadline
}

// Due returns the deadline as a time.Time and whether one is set.
func (t Task) Due() (time.Time, bool) {
	if t.DueAt == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*t.DueAt), true
}

// IsOverdue reports whether the task is past its deadline and not done.
func (t Task) IsOverdue(now time.Time) bool {
	due, ok := t.Due()
	if !ok {
		return false
	}
	return t.Status != StatusDone && due.Before(now)
}

// TaskWithAttachments is the read aggregate of a task and its attachments
// in insertion order. It is recomputed on read, never stored.
type TaskWithAttachments struct {
	Task        Task
	Attachments []Attachment
}

// PendingTask is a draft task together with the attachments staged while
// the task had no durable id. On first save the attachments are re-keyed
// to the assigned id in the same transaction as the task insert.
type PendingTask struct {
	Task              Task
	StagedAttachments []Attachment
}
