// Package sse provides Server-Sent Events support. The admin console uses a
// Broker to stream newly placed orders to any number of connected dashboards.
//
//	feed := sse.NewBroker()
//
//	r.Get("/admin/orders/feed", "admin.orders.feed", func(w http.ResponseWriter, r *http.Request) {
//	    feed.Serve(w, r)
//	})
//
//	feed.Publish("order.placed", order)
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// ─── Stream ──────────────────────────────────────────────────────────────────

// Stream represents an active SSE connection to one client.
type Stream struct {
	w       http.ResponseWriter
	r       *http.Request
	flusher http.Flusher
	closed  bool
}

// New creates an SSE stream and sets the required headers.
// Returns nil if the ResponseWriter does not support flushing.
func New(w http.ResponseWriter, r *http.Request) *Stream {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering

	return &Stream{w: w, r: r, flusher: flusher}
}

// Send writes a named SSE event with a JSON-encoded data payload.
func (s *Stream) Send(event string, data any) error {
	if s == nil || s.closed {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}

	fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload)
	s.flusher.Flush()

	select {
	case <-s.r.Context().Done():
		s.closed = true
	default:
	}
	return nil
}

// Comment writes an SSE comment (useful as a keepalive heartbeat).
func (s *Stream) Comment(msg string) {
	if s == nil || s.closed {
		return
	}
	fmt.Fprintf(s.w, ": %s\n\n", msg)
	s.flusher.Flush()
}

// IsClosed reports whether the client has disconnected.
func (s *Stream) IsClosed() bool {
	if s == nil {
		return true
	}
	select {
	case <-s.r.Context().Done():
		s.closed = true
	default:
	}
	return s.closed
}

// ─── Broker ──────────────────────────────────────────────────────────────────

type brokerEvent struct {
	name string
	data any
}

// Broker fans published events out to every connected stream.
type Broker struct {
	mu   sync.Mutex
	subs map[chan brokerEvent]struct{}
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{subs: map[chan brokerEvent]struct{}{}}
}

// Publish sends a named event to all connected subscribers.
// Slow subscribers drop events rather than block the publisher.
func (b *Broker) Publish(event string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- brokerEvent{name: event, data: data}:
		default:
		}
	}
}

// SubscriberCount returns the number of connected streams.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broker) subscribe() chan brokerEvent {
	ch := make(chan brokerEvent, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) unsubscribe(ch chan brokerEvent) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Serve subscribes the request to the broker and blocks until the client
// disconnects, forwarding published events and a periodic heartbeat.
func (b *Broker) Serve(w http.ResponseWriter, r *http.Request) {
	stream := New(w, r)
	if stream == nil {
		return
	}

	ch := b.subscribe()
	defer b.unsubscribe(ch)

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	stream.Comment("connected")
	for {
		select {
		case ev := <-ch:
			_ = stream.Send(ev.name, ev.data)
		case <-heartbeat.C:
			stream.Comment("keepalive")
		case <-r.Context().Done():
			return
		}
		if stream.IsClosed() {
			return
		}
	}
}
