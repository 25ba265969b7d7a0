package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Operation names the kind of write that produced a change event.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func (o Operation) Valid() bool {
	switch o {
	case OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

// ChangeEvent announces that an expense changed. It carries only the id; the
// consumer reads the current record from the store.
type ChangeEvent struct {
	ID        string    `json:"id"`
	Operation Operation `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeEvent(id string, op Operation) *ChangeEvent {
	return &ChangeEvent{
		ID:        id,
		Operation: op,
		Timestamp: time.Now().UTC(),
	}
}

func (e *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ChangeEventFromJSON decodes and validates an event body.
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.ID == "" {
		return nil, fmt.Errorf("change event: missing id")
	}
	if !ev.Operation.Valid() {
		return nil, fmt.Errorf("change event: unknown operation %q", ev.Operation)
	}
	return &ev, nil
}
