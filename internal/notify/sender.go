// Package notify delivers like notifications and engagement reminders to
// the chat front end through a pluggable Sender.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/oggyb/swipe-core/internal/db"
)

// Kind classifies an outgoing message.
type Kind string

const (
	KindLike      Kind = "like"
	KindSuperLike Kind = "super_like"
	KindMatch     Kind = "match"
	KindReminder  Kind = "reminder"
)

// Message is one notification addressed to a user.
type Message struct {
	NotificationID uint64    `json:"notification_id,omitempty"`
	To             int64     `json:"to"`
	From           int64     `json:"from,omitempty"`
	Kind           Kind      `json:"kind"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

// Sender hands a message to the delivery transport. Delivery is
// at-least-once: a message may be sent again after a failure.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Reporter observes delivery attempts; metrics.Collector implements it.
type Reporter interface {
	NotificationSent(kind string, err error)
}

type nopReporter struct{}

func (nopReporter) NotificationSent(string, error) {}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log.With("component", "notify")}
}

func (s *LogSender) Send(_ context.Context, m Message) error {
	s.log.Info("notification", "to", m.To, "kind", m.Kind, "text", m.Text)
	return nil
}

// FromLike builds the message of a stored like notification.
func FromLike(n db.LikeNotification) Message {
	m := Message{
		NotificationID: n.ID,
		To:             n.ToID,
		From:           n.FromID,
		CreatedAt:      n.CreatedAt,
	}
	switch {
	case n.IsMutual:
		m.Kind = KindMatch
		m.Text = "💞 У тебя взаимная симпатия! Начинай общение!"
	case n.IsSuperLike:
		m.Kind = KindSuperLike
		m.Text = "💫 Тебя суперлайкнули! Хочешь посмотреть кто это? 👀"
	default:
		m.Kind = KindLike
		m.Text = "❤️ Тебя лайкнули! Хочешь посмотреть кто это? 👀"
	}
	return m
}
