// Package events defines event types and structures for flow execution
// lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/kohai-io/flowrun/pkg/models"
)

type EventType string

// Topic carries all flow execution events.
const Topic = "flowrun.executions"

const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent   EventType = "execution.started"
	NodeCompletedEvent      EventType = "execution.node.completed"
	ExecutionFinishedEvent  EventType = "execution.finished"
	ExecutionCancelledEvent EventType = "execution.cancelled"
)

// Event is implemented by every published event.
type Event interface {
	GetType() EventType
}

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	FlowID    string    `json:"flow_id"`
}

// NewBaseEvent creates the common envelope for an event.
func NewBaseEvent(eventType EventType, flowID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		FlowID:    flowID,
	}
}

// ExecutionStarted is published when a run begins, after validation passed.
type ExecutionStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	NodeCount   int    `json:"node_count"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

// NodeCompleted is published each time a node finishes one execution step,
// including once per loop iteration for nodes inside an "each" subgraph.
type NodeCompleted struct {
	BaseEvent

	ExecutionID string            `json:"execution_id"`
	NodeID      string            `json:"node_id"`
	Status      models.NodeStatus `json:"status"`
	Error       string            `json:"error,omitempty"`
}

func (e NodeCompleted) GetType() EventType {
	return NodeCompletedEvent
}

// ExecutionCancelled is published when a run stops because of Abort or
// context cancellation.
type ExecutionCancelled struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
}

func (e ExecutionCancelled) GetType() EventType {
	return ExecutionCancelledEvent
}

// ExecutionFinished is published when a run concludes, whatever its status.
type ExecutionFinished struct {
	BaseEvent

	ExecutionID string                 `json:"execution_id"`
	Status      models.ExecutionStatus `json:"status"`
	Duration    time.Duration          `json:"duration"`
	ErrorCount  int                    `json:"error_count"`
}

func (e ExecutionFinished) GetType() EventType {
	return ExecutionFinishedEvent
}
