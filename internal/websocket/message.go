package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/nonprofit-site/internal/domain"
)

type MessageType string

const (
	// Client to Server
	MessageTypePing MessageType = "PING"

	// Server to Client
	MessageTypeWelcome        MessageType = "WELCOME"
	MessageTypePong           MessageType = "PONG"
	MessageTypeResourceChange MessageType = "RESOURCE_CHANGE"
	MessageTypeError          MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
	Seq       int             `json:"seq,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		payloadBytes = b
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Server to Client payloads

type WelcomePayload struct {
	UserID  string `json:"userId"`
	Clients int    `json:"clients"`
}

type ResourceChangePayload = domain.ResourceChange

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
