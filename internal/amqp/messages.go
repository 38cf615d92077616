package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Event kinds carried by ledger event messages.
const (
	EventRecordAdded   = "record_added"
	EventRecordDeleted = "record_deleted"
)

// LedgerEventMessage is a lightweight notification that the ledger changed.
// It carries only the record id and the kind of change; the worker re-reads
// the full ledger from the store before exporting, so the message never
// needs the row data itself.
type LedgerEventMessage struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates an event message for a record change.
func NewLedgerEventMessage(kind string, id int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		ID:        id,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Kind != EventRecordAdded && msg.Kind != EventRecordDeleted {
		return nil, errors.New("unknown ledger event kind: " + msg.Kind)
	}
	return &msg, nil
}
