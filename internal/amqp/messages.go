package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

const (
	MessageTypeSync   = "transaction.sync"
	MessageTypeDelete = "transaction.delete"
)

// TransactionMessage is the lightweight event published when a
// transaction is created or deleted. It carries only the storage
// reference; the worker fetches the full record from the database.
type TransactionMessage struct {
	Type      string    `json:"type"`
	Ref       string    `json:"ref"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSyncMessage creates a sync event for a freshly stored transaction.
func NewSyncMessage(ref string) *TransactionMessage {
	return &TransactionMessage{
		Type:      MessageTypeSync,
		Ref:       ref,
		Timestamp: time.Now(),
	}
}

// NewDeleteMessage creates a delete event.
func NewDeleteMessage(ref string) *TransactionMessage {
	return &TransactionMessage{
		Type:      MessageTypeDelete,
		Ref:       ref,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON creates a message from JSON bytes
func MessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Type != MessageTypeSync && msg.Type != MessageTypeDelete {
		return nil, errors.New("unknown message type: " + msg.Type)
	}
	if msg.Ref == "" {
		return nil, errors.New("message missing ref")
	}
	return &msg, nil
}
