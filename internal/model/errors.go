package model

import "errors"

// Task errors
var (
	ErrTaskInvalid  = errors.New("task invalid")
	ErrTaskNotFound = errors.New("task not found")
	ErrTaskExists   = errors.New("task already exists")
)

// Scheduling errors
var (
	// ErrExactAlarmPermission means the alarm backend may not register
	// exact-time wake-ups. Callers must surface it rather than degrade
	// to best-effort delivery.
	ErrExactAlarmPermission = errors.New("exact alarm permission denied")
)

// ErrStorage wraps persistence failures. The enclosing logical operation
// must be resubmitted whole; partial retries are unsafe for multi-row
// writes.
var ErrStorage = errors.New("storage failure")
