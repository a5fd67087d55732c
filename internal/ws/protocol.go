package ws

import "encoding/json"

// Event names mirror the client contract: joinRoom/leaveRoom/sendMessage
// inbound, receiveMessage outbound.
const (
	EventJoinRoom       = "joinRoom"
	EventLeaveRoom      = "leaveRoom"
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
)

type Envelope struct {
	Event   string          `json:"event"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ChatMessage struct {
	Room      string `json:"room"`
	From      string `json:"from"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

func encodeReceiveMessage(msg ChatMessage) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: EventReceiveMessage, Payload: payload})
}
