package notify

import (
	"fmt"
	"html"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Juhasen/ToDo/internal/service"
)

// Telegram delivers reminders to one chat. A re-fire for the same task id
// deletes the previous message first, so reminders replace rather than
// stack.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64

	mu       sync.Mutex
	messages map[uint]int // task id -> last sent message id
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &Telegram{
		api:      api,
		chatID:   chatID,
		messages: make(map[uint]int),
	}, nil
}

func (t *Telegram) Notify(payload service.NotificationPayload) error {
	t.mu.Lock()
	prior, hadPrior := t.messages[payload.TaskID]
	t.mu.Unlock()

	if hadPrior {
		// Best effort: the old message may already be gone.
		_, _ = t.api.Request(tgbotapi.NewDeleteMessage(t.chatID, prior))
	}

	var text strings.Builder
	text.WriteString("⏰ <b>")
	text.WriteString(html.EscapeString(strings.TrimSpace(payload.Title)))
	text.WriteString("</b>")
	if payload.Description != "" {
		text.WriteString("\n")
		text.WriteString(html.EscapeString(strings.TrimSpace(payload.Description)))
	}

	msg := tgbotapi.NewMessage(t.chatID, text.String())
	msg.ParseMode = tgbotapi.ModeHTML
	sent, err := t.api.Send(msg)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	t.mu.Lock()
	t.messages[payload.TaskID] = sent.MessageID
	t.mu.Unlock()
	return nil
}
