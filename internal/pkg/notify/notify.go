package notify

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/sse"
	"github.com/google/uuid"
)

// Topic is the hub topic notifications are published on.
const Topic = "notifications"

// DefaultCapacity bounds the number of notifications kept in a Center.
const DefaultCapacity = 20

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a dismissible toast shown to the operator.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier receives user-facing failure and success reports.
type Notifier interface {
	Notify(level Level, title, message string)
}

// Center keeps the most recent notifications until they are dismissed.
type Center struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	hub      *sse.Hub
	now      func() time.Time
}

// NewCenter returns a Center. hub may be nil.
func NewCenter(capacity int, hub *sse.Hub) *Center {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Center{capacity: capacity, hub: hub, now: time.Now}
}

func (c *Center) Notify(level Level, title, message string) {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Title:     title,
		Message:   message,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	if over := len(c.items) - c.capacity; over > 0 {
		c.items = slices.Delete(c.items, 0, over)
	}
	c.mu.Unlock()

	logNotification(n)

	if c.hub != nil {
		c.hub.Publish(Topic, sse.Event{Name: "notification", Data: n})
	}
}

// List returns the kept notifications, newest first.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := slices.Clone(c.items)
	slices.Reverse(out)
	return out
}

// Dismiss removes the notification with id and reports whether it existed.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.IndexFunc(c.items, func(n Notification) bool { return n.ID == id })
	if i < 0 {
		return false
	}
	c.items = slices.Delete(c.items, i, i+1)
	return true
}

func logNotification(n Notification) {
	attrs := []any{"id", n.ID, "title", n.Title, "message", n.Message}
	switch n.Level {
	case LevelError:
		slog.Error("Notification raised", attrs...)
	case LevelWarning:
		slog.Warn("Notification raised", attrs...)
	default:
		slog.Info("Notification raised", attrs...)
	}
}
