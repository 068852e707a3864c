package websocket

import (
	"encoding/json"
	"time"
)

const (
	MessageTypePing = "ping"
	MessageTypePong = "pong"
)

// WSMessage is the envelope for client-initiated frames. Chat writes go through
// the HTTP API, so the socket only answers keepalives.
type WSMessage struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

func handleInbound(data []byte) []byte {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil
	}

	switch msg.Type {
	case MessageTypePing:
		reply, _ := json.Marshal(WSMessage{Type: MessageTypePong, Timestamp: time.Now().UnixMilli()})
		return reply
	}
	return nil
}
