// Package chat implements the anonymous random-chat feature on top of the
// websocket hub. Visitors send a "join" frame; the matcher pairs two
// waiting visitors into a room and relays their frames until one leaves.
package chat

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/sujinlee/moamall/pkg/logger"
	"github.com/sujinlee/moamall/pkg/ws"
)

// Frame types exchanged with clients.
const (
	FrameJoin        = "join"
	FrameMatched     = "matched"
	FrameMessage     = "message"
	FrameTyping      = "typing"
	FramePartnerLeft = "partner_left"
	FrameLeave       = "leave"
)

// Frame is the JSON envelope for every chat message.
type Frame struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id,omitempty"`
	Body   string `json:"body,omitempty"`
}

// Matcher pairs waiting clients and routes frames within rooms.
// All mutation happens on the hub goroutine (OnMessage/OnLeave run there),
// but the mutex keeps Stats() safe from other goroutines.
type Matcher struct {
	mu      sync.Mutex
	waiting *ws.Client
	partner map[*ws.Client]*ws.Client
	room    map[*ws.Client]string
}

// NewMatcher creates a Matcher and hooks it into hub.
func NewMatcher(hub *ws.Hub) *Matcher {
	m := &Matcher{
		partner: make(map[*ws.Client]*ws.Client),
		room:    make(map[*ws.Client]string),
	}
	hub.OnMessage = m.onMessage
	hub.OnLeave = m.onLeave
	return m
}

// Stats returns how many clients are waiting and how many are paired.
func (m *Matcher) Stats() (waiting, paired int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.waiting != nil {
		waiting = 1
	}
	return waiting, len(m.partner)
}

func (m *Matcher) onMessage(_ *ws.Hub, msg ws.Message) {
	var frame Frame
	if err := json.Unmarshal(msg.Data, &frame); err != nil {
		logger.Warn("chat: bad frame", "error", err)
		return
	}

	switch frame.Type {
	case FrameJoin:
		m.join(msg.Client)
	case FrameMessage, FrameTyping:
		// Relay to the partner verbatim; ordering follows the partner's
		// send channel.
		m.relay(msg.Client, frame)
	case FrameLeave:
		m.leave(msg.Client)
	default:
		logger.Warn("chat: unknown frame type", "type", frame.Type)
	}
}

func (m *Matcher) onLeave(_ *ws.Hub, c *ws.Client) {
	m.leave(c)
}

func (m *Matcher) join(c *ws.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.partner[c] != nil || m.waiting == c {
		return // already queued or paired
	}

	if m.waiting == nil {
		m.waiting = c
		return
	}

	// Pair with the waiting client.
	other := m.waiting
	m.waiting = nil
	roomID := uuid.NewString()

	m.partner[c] = other
	m.partner[other] = c
	m.room[c] = roomID
	m.room[other] = roomID

	matched, _ := json.Marshal(Frame{Type: FrameMatched, RoomID: roomID})
	c.Send(matched)
	other.Send(matched)
	logger.Info("chat: matched", "room", roomID)
}

func (m *Matcher) relay(c *ws.Client, frame Frame) {
	m.mu.Lock()
	partner := m.partner[c]
	frame.RoomID = m.room[c]
	m.mu.Unlock()

	if partner == nil {
		return // not in a room; drop
	}

	out, err := json.Marshal(frame)
	if err != nil {
		return
	}
	partner.Send(out)
}

// leave tears the client out of the queue or its room and notifies the
// partner. The partner is not re-queued; they decide whether to rejoin.
func (m *Matcher) leave(c *ws.Client) {
	m.mu.Lock()
	if m.waiting == c {
		m.waiting = nil
		m.mu.Unlock()
		return
	}

	partner := m.partner[c]
	roomID := m.room[c]
	delete(m.partner, c)
	delete(m.room, c)
	if partner != nil {
		delete(m.partner, partner)
		delete(m.room, partner)
	}
	m.mu.Unlock()

	if partner != nil {
		out, _ := json.Marshal(Frame{Type: FramePartnerLeft, RoomID: roomID})
		partner.Send(out)
		logger.Info("chat: partner left", "room", roomID)
	}
}
