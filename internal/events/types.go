package events

import "time"

// EventType identifies the category of a pipeline event.
type EventType string

// Run lifecycle events. One run is one orchestrated user message.
const (
	EventRunStarted      EventType = "run.started"
	EventRunAttempt      EventType = "run.attempt"
	EventRunRetry        EventType = "run.retry"
	EventRunShortCircuit EventType = "run.short_circuit"
	EventRunTerminal     EventType = "run.terminal"
)

// Tool events.
const (
	EventToolExecuted EventType = "tool.executed"
	EventToolFailed   EventType = "tool.failed"
)

// Event is one observable pipeline occurrence.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"session_id,omitempty"`
	Tool      string         `json:"tool,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Filter selects events for a subscription. Fields use AND logic;
// empty fields match everything.
type Filter struct {
	Types     []EventType `json:"types,omitempty"`
	SessionID string      `json:"session_id,omitempty"`
}

// Matches reports whether event satisfies the filter.
func (f Filter) Matches(event Event) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if t == event.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.SessionID != "" && f.SessionID != event.SessionID {
		return false
	}
	return true
}
