package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 256
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	now func() time.Time
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		now:  time.Now,
	}
}

// ReadPump dispatches inbound envelopes until the connection errors,
// then tears the client down (which removes it from all rooms).
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(c.now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(c.now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.handleEnvelope(raw)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(c.now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(c.now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleEnvelope routes one inbound frame. Malformed frames and
// messages without a room are dropped silently.
func (c *Client) handleEnvelope(raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return
	}

	switch env.Event {
	case EventJoinRoom:
		c.hub.Join(c, env.Room)

	case EventLeaveRoom:
		c.hub.Leave(c, env.Room)

	case EventSendMessage:
		var msg ChatMessage
		if len(env.Payload) == 0 || json.Unmarshal(env.Payload, &msg) != nil {
			return
		}
		if msg.Room == "" {
			return
		}
		// Server clock wins over any client-supplied timestamp.
		msg.Timestamp = c.now().UnixMilli()
		out, err := encodeReceiveMessage(msg)
		if err != nil {
			return
		}
		c.hub.Broadcast(msg.Room, out)
	}
}
