package models

// EventKind is the kind of timestamp a timeline event was derived from
type EventKind string

const (
	EventCreated  EventKind = "CREATED"
	EventModified EventKind = "MODIFIED"
	EventAccessed EventKind = "ACCESSED"
)

// TimelineEvent is a single dated event for a file
type TimelineEvent struct {
	Timestamp     float64   `json:"timestamp"`
	FormattedTime string    `json:"formatted_time"`
	Kind          EventKind `json:"type"`
	File          string    `json:"file"`
}
