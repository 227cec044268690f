package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "EVALUATION_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the common implementation used by concrete events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// EvaluationCompleted is emitted after a pipeline run reaches Completed and
// its result has been written back into the owning session.
func EvaluationCompleted(sessionID, kind, verdict string, completionPct int) Event {
	return BaseEvent{
		Type: "EVALUATION_COMPLETED",
		Data: map[string]interface{}{
			"session_id":     sessionID,
			"kind":           kind,
			"verdict":        verdict,
			"completion_pct": completionPct,
		},
		OccurredAt: time.Now(),
	}
}
