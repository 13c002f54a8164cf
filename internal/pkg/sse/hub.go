package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Event is a server-sent event published on a topic.
type Event struct {
	Topic string
	Name  string
	Data  any
}

// Hub fans events out to subscribers by topic.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers one channel on every given topic and returns it with its cleanup function.
func (h *Hub) Subscribe(topics ...string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)
	for _, topic := range topics {
		if h.subscribers[topic] == nil {
			h.subscribers[topic] = make(map[chan Event]struct{})
		}
		h.subscribers[topic][ch] = struct{}{}
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, topic := range topics {
				delete(h.subscribers[topic], ch)
				if len(h.subscribers[topic]) == 0 {
					delete(h.subscribers, topic)
				}
			}
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish sends event to every subscriber of topic. Full subscriber buffers drop the event.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.Topic = topic
	for ch := range h.subscribers[topic] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}

// TotalSubscribers counts distinct subscriber channels across all topics.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[chan Event]struct{})
	for _, subs := range h.subscribers {
		for ch := range subs {
			seen[ch] = struct{}{}
		}
	}
	return len(seen)
}

// Write encodes event as one SSE frame.
func Write(w io.Writer, event Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	name := event.Name
	if name == "" {
		name = "message"
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
