// Package notify holds the presentation collaborators that consume fired
// reminder payloads.
package notify

import (
	"log"

	"github.com/Juhasen/ToDo/internal/service"
)

// Log writes reminders to the process log. Used when no external channel
// is configured.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Notify(payload service.NotificationPayload) error {
	if payload.Description == "" {
		log.Printf("reminder [%d]: %s", payload.TaskID, payload.Title)
		return nil
	}
	log.Printf("reminder [%d]: %s: %s", payload.TaskID, payload.Title, payload.Description)
	return nil
}
