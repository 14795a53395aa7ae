package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Status is the completion state of a task. Unknown stored values decode
// to StatusTodo.
type Status string

const (
	StatusTodo Status = "TODO"
	StatusDone Status = "DONE"
)

// ParseStatus maps a serialized value to a Status, case-insensitively.
func ParseStatus(value string) Status {
	if strings.EqualFold(value, string(StatusDone)) {
		return StatusDone
	}
	return StatusTodo
}

// Scan implements sql.Scanner.
func (s *Status) Scan(value any) error {
	switch v := value.(type) {
	case string:
		*s = ParseStatus(v)
	case []byte:
		*s = ParseStatus(string(v))
	case nil:
		*s = StatusTodo
	default:
		return fmt.Errorf("scan status: unsupported type %T", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	if s == "" {
		return string(StatusTodo), nil
	}
	return string(s), nil
}
