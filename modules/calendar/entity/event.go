package entity

import "time"

// EventSource tells a reconciled timeline apart by origin.
type EventSource string

const (
	SourceLocal  EventSource = "local"
	SourceRemote EventSource = "remote"
)

// CalendarEvent is the normalized event shape every component downstream of
// the gateway works with, regardless of origin.
type CalendarEvent struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Source      EventSource `json:"source"`
	Description string      `json:"description,omitempty"`
	Location    string      `json:"location,omitempty"`
}
