package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notify"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/sse"
	"github.com/go-chi/chi/v5"
)

// streamTopics are the hub topics a page may subscribe to besides notifications.
var streamTopics = []string{employeesTopic, attendanceTopic}

// NotificationHandler defines the notification handler interface
type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Dismiss(w http.ResponseWriter, r *http.Request)

	// SSE
	Stream(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	center    *notify.Center
	hub       *sse.Hub
	keepalive time.Duration
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(center *notify.Center, hub *sse.Hub) NotificationHandler {
	return &notificationHandlerImpl{
		center:    center,
		hub:       hub,
		keepalive: 30 * time.Second,
	}
}

// List returns the notifications that have not been dismissed, newest first
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.center.List())
}

// Dismiss removes one notification
func (h *notificationHandlerImpl) Dismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.center.Dismiss(id) {
		response.NotFound(w, "Notification not found")
		return
	}
	response.NoContent(w)
}

// Stream handles the SSE connection that carries notifications, list view
// updates and cache refreshes for the topics the page asked for.
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	topics := []string{notify.Topic}
	for _, t := range r.URL.Query()["topic"] {
		if slices.Contains(streamTopics, t) && !slices.Contains(topics, t) {
			topics = append(topics, t)
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(topics...)
	defer cleanup()

	if err := sse.Write(w, sse.Event{Name: "connected", Data: map[string]any{"topics": topics}}); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := sse.Write(w, event); err != nil {
				slog.Debug("SSE write failed", "event", event.Name, "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
