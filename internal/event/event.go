package event

import "time"

type Type string

const (
	TypeCallSucceeded Type = "docman.call.succeeded"
	TypeCallFailed    Type = "docman.call.failed"
)

// Call describes one finished DocMan API call.
type Call struct {
	Resource   string        `json:"resource"`
	Method     string        `json:"method"`
	StatusCode int           `json:"status_code"`
	RequestID  string        `json:"request_id"`
	Duration   time.Duration `json:"duration"`
	Error      string        `json:"error,omitempty"`
}

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Payload   Call      `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
