package chat

import (
	"encoding/json"
	"testing"

	"github.com/sujinlee/moamall/pkg/ws"
)

func newTestMatcher() *Matcher {
	hub := ws.NewHub()
	return NewMatcher(hub)
}

func frame(t *testing.T, f Frame) []byte {
	t.Helper()
	raw, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal frame: %v", err)
	}
	return raw
}

func drain(t *testing.T, c *ws.Client) Frame {
	t.Helper()
	select {
	case raw := <-c.Outbox():
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatalf("unmarshal outbound frame: %v", err)
		}
		return f
	default:
		t.Fatal("no outbound frame queued")
		return Frame{}
	}
}

func TestMatcherPairsTwoVisitors(t *testing.T) {
	m := newTestMatcher()
	a := ws.NewDetachedClient(8)
	b := ws.NewDetachedClient(8)

	m.onMessage(nil, ws.Message{Client: a, Data: frame(t, Frame{Type: FrameJoin})})
	if waiting, paired := m.Stats(); waiting != 1 || paired != 0 {
		t.Fatalf("after first join: waiting=%d paired=%d, want 1/0", waiting, paired)
	}

	m.onMessage(nil, ws.Message{Client: b, Data: frame(t, Frame{Type: FrameJoin})})
	if waiting, paired := m.Stats(); waiting != 0 || paired != 2 {
		t.Fatalf("after second join: waiting=%d paired=%d, want 0/2", waiting, paired)
	}

	fa, fb := drain(t, a), drain(t, b)
	if fa.Type != FrameMatched || fb.Type != FrameMatched {
		t.Errorf("frame types = %q/%q, want matched", fa.Type, fb.Type)
	}
	if fa.RoomID == "" || fa.RoomID != fb.RoomID {
		t.Errorf("room ids differ: %q vs %q", fa.RoomID, fb.RoomID)
	}
}

func TestMatcherRelaysMessagesAndTyping(t *testing.T) {
	m := newTestMatcher()
	a := ws.NewDetachedClient(8)
	b := ws.NewDetachedClient(8)

	m.onMessage(nil, ws.Message{Client: a, Data: frame(t, Frame{Type: FrameJoin})})
	m.onMessage(nil, ws.Message{Client: b, Data: frame(t, Frame{Type: FrameJoin})})
	room := drain(t, a).RoomID
	drain(t, b)

	m.onMessage(nil, ws.Message{Client: a, Data: frame(t, Frame{Type: FrameMessage, Body: "hello"})})
	got := drain(t, b)
	if got.Type != FrameMessage || got.Body != "hello" || got.RoomID != room {
		t.Errorf("relayed frame = %+v, want message/hello in room %s", got, room)
	}

	// Sender must not receive an echo.
	select {
	case raw := <-a.Outbox():
		t.Errorf("sender received echo: %s", raw)
	default:
	}

	m.onMessage(nil, ws.Message{Client: b, Data: frame(t, Frame{Type: FrameTyping})})
	if got := drain(t, a); got.Type != FrameTyping {
		t.Errorf("typing frame = %+v", got)
	}
}

func TestMatcherLeaveNotifiesPartner(t *testing.T) {
	m := newTestMatcher()
	a := ws.NewDetachedClient(8)
	b := ws.NewDetachedClient(8)

	m.onMessage(nil, ws.Message{Client: a, Data: frame(t, Frame{Type: FrameJoin})})
	m.onMessage(nil, ws.Message{Client: b, Data: frame(t, Frame{Type: FrameJoin})})
	drain(t, a)
	drain(t, b)

	m.onMessage(nil, ws.Message{Client: a, Data: frame(t, Frame{Type: FrameLeave})})

	if got := drain(t, b); got.Type != FramePartnerLeft {
		t.Errorf("partner frame = %+v, want partner_left", got)
	}
	if waiting, paired := m.Stats(); waiting != 0 || paired != 0 {
		t.Errorf("after leave: waiting=%d paired=%d, want 0/0; nobody is requeued", waiting, paired)
	}

	// Frames from the departed room are dropped, not delivered.
	m.onMessage(nil, ws.Message{Client: b, Data: frame(t, Frame{Type: FrameMessage, Body: "anyone?"})})
	select {
	case raw := <-a.Outbox():
		t.Errorf("departed client received frame: %s", raw)
	default:
	}
}

func TestMatcherDisconnectBehavesLikeLeave(t *testing.T) {
	m := newTestMatcher()
	a := ws.NewDetachedClient(8)
	b := ws.NewDetachedClient(8)

	m.onMessage(nil, ws.Message{Client: a, Data: frame(t, Frame{Type: FrameJoin})})
	m.onMessage(nil, ws.Message{Client: b, Data: frame(t, Frame{Type: FrameJoin})})
	drain(t, a)
	drain(t, b)

	m.onLeave(nil, b)
	if got := drain(t, a); got.Type != FramePartnerLeft {
		t.Errorf("frame = %+v, want partner_left", got)
	}
}

func TestMatcherDoubleJoinIsIdempotent(t *testing.T) {
	m := newTestMatcher()
	a := ws.NewDetachedClient(8)

	m.onMessage(nil, ws.Message{Client: a, Data: frame(t, Frame{Type: FrameJoin})})
	m.onMessage(nil, ws.Message{Client: a, Data: frame(t, Frame{Type: FrameJoin})})

	if waiting, paired := m.Stats(); waiting != 1 || paired != 0 {
		t.Errorf("waiting=%d paired=%d, want 1/0 (no self-pairing)", waiting, paired)
	}
}
