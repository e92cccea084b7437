package dto

// Wire shapes of the Google Calendar v3 events API.

type GoogleCalendarEvent struct {
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status,omitempty"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
}

// EventTime carries either a dateTime (timed event) or a date (all-day).
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

type GoogleEventsListResponse struct {
	Items []GoogleCalendarEvent `json:"items"`
}

// EventRequest is the caller-facing payload for create and update.
type EventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartTime   string `json:"start_time"` // RFC3339
	EndTime     string `json:"end_time"`   // RFC3339
	Timezone    string `json:"timezone,omitempty"`
}

// EventResponse echoes the persisted event with the provider-assigned id.
type EventResponse struct {
	EventID     string `json:"event_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}
