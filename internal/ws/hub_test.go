package ws

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func newTestClient(h *Hub) *Client {
	c := NewClient(h, nil)
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	h.Register(c)
	return c
}

func recvEnvelope(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case raw := <-c.send:
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		return env
	default:
		t.Fatalf("expected a message, got none")
		return Envelope{}
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected message: %s", raw)
	default:
	}
}

func sendChat(c *Client, room, from, text string) {
	payload, _ := json.Marshal(map[string]any{
		"room": room, "from": from, "text": text, "timestamp": 1,
	})
	raw, _ := json.Marshal(Envelope{Event: EventSendMessage, Payload: payload})
	c.handleEnvelope(raw)
}

func TestHub_BroadcastReachesRoomMembersIncludingSender(t *testing.T) {
	hub := NewHub(nil)
	a := newTestClient(hub)
	b := newTestClient(hub)
	outsider := newTestClient(hub)

	hub.Join(a, "p1")
	hub.Join(b, "p1")
	hub.Join(outsider, "p2")

	sendChat(a, "p1", "A", "hi")

	for _, c := range []*Client{a, b} {
		env := recvEnvelope(t, c)
		if env.Event != EventReceiveMessage {
			t.Fatalf("expected receiveMessage, got %q", env.Event)
		}
		var msg ChatMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if msg.Text != "hi" || msg.From != "A" || msg.Room != "p1" {
			t.Fatalf("unexpected message: %+v", msg)
		}
		if msg.Timestamp != 1700000000000 {
			t.Fatalf("expected server-assigned timestamp, got %d", msg.Timestamp)
		}
	}

	assertNoMessage(t, outsider)
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := NewHub(nil)
	a := newTestClient(hub)
	b := newTestClient(hub)

	hub.Join(a, "p1")
	hub.Join(b, "p1")
	hub.Leave(b, "p1")

	sendChat(a, "p1", "A", "after leave")

	recvEnvelope(t, a)
	assertNoMessage(t, b)
}

func TestHub_LeaveWithoutJoinIsNoError(t *testing.T) {
	hub := NewHub(nil)
	a := newTestClient(hub)

	hub.Leave(a, "never-joined")

	if hub.RoomSize("never-joined") != 0 {
		t.Fatalf("phantom room membership")
	}
}

func TestHub_UnregisterRemovesFromAllRooms(t *testing.T) {
	hub := NewHub(nil)
	a := newTestClient(hub)
	b := newTestClient(hub)

	hub.Join(a, "p1")
	hub.Join(a, "p2")
	hub.Join(b, "p1")

	hub.Unregister(a)

	if hub.RoomSize("p1") != 1 || hub.RoomSize("p2") != 0 {
		t.Fatalf("disconnect left stale room membership: p1=%d p2=%d", hub.RoomSize("p1"), hub.RoomSize("p2"))
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.ClientCount())
	}

	sendChat(b, "p1", "B", "anyone there")
	if _, ok := <-a.send; ok {
		t.Fatalf("expected closed send channel for unregistered client")
	}
}

func TestHub_MessageWithoutRoomIsDropped(t *testing.T) {
	hub := NewHub(nil)
	a := newTestClient(hub)
	hub.Join(a, "p1")

	sendChat(a, "", "A", "lost")
	assertNoMessage(t, a)
}

func TestHub_MalformedFrameIsDropped(t *testing.T) {
	hub := NewHub(nil)
	a := newTestClient(hub)
	hub.Join(a, "p1")

	a.handleEnvelope([]byte("{not json"))
	a.handleEnvelope([]byte(`{"event":"sendMessage"}`))
	assertNoMessage(t, a)
}

func TestHub_JoinTwiceDeliversOnce(t *testing.T) {
	hub := NewHub(nil)
	a := newTestClient(hub)

	hub.Join(a, "p1")
	hub.Join(a, "p1")

	sendChat(a, "p1", "A", "once")

	recvEnvelope(t, a)
	assertNoMessage(t, a)
}

func TestHub_ConcurrentChurnAndBroadcast(t *testing.T) {
	hub := NewHub(nil)
	payload := []byte(`{"event":"receiveMessage","payload":{"room":"p1","from":"x","text":"y","timestamp":1}}`)

	stop := make(chan struct{})
	var broadcasters sync.WaitGroup
	for i := 0; i < 2; i++ {
		broadcasters.Add(1)
		go func() {
			defer broadcasters.Done()
			for {
				select {
				case <-stop:
					return
				default:
					hub.Broadcast("p1", payload)
				}
			}
		}()
	}

	var churn sync.WaitGroup
	for i := 0; i < 8; i++ {
		churn.Add(1)
		go func() {
			defer churn.Done()
			for n := 0; n < 100; n++ {
				c := NewClient(hub, nil)
				hub.Register(c)
				hub.Join(c, "p1")
				hub.Leave(c, "p1")
				hub.Join(c, "p1")
				hub.Unregister(c)
			}
		}()
	}

	churn.Wait()
	close(stop)
	broadcasters.Wait()

	if hub.ClientCount() != 0 {
		t.Fatalf("expected every client torn down, got %d", hub.ClientCount())
	}
	if hub.RoomSize("p1") != 0 {
		t.Fatalf("expected empty room after churn, got %d members", hub.RoomSize("p1"))
	}
}

func TestHub_ConnectionCanJoinMultipleRooms(t *testing.T) {
	hub := NewHub(nil)
	a := newTestClient(hub)
	b := newTestClient(hub)

	hub.Join(a, "p1")
	hub.Join(a, "p2")
	hub.Join(b, "p2")

	sendChat(b, "p2", "B", "room two")

	env := recvEnvelope(t, a)
	var msg ChatMessage
	_ = json.Unmarshal(env.Payload, &msg)
	if msg.Room != "p2" {
		t.Fatalf("expected room p2, got %q", msg.Room)
	}
	recvEnvelope(t, b)
}
