package dto

import (
	"time"

	calendarEntity "dayflow-api/modules/calendar/entity"
	"dayflow-api/modules/schedule/entity"
)

// ScheduleItemRequest creates a locally authored schedule entry.
type ScheduleItemRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Location     string `json:"location,omitempty"`
	StartTime    string `json:"start_time"` // RFC3339
	EndTime      string `json:"end_time"`   // RFC3339
	RemoteMirror bool   `json:"remote_mirror,omitempty"`
}

// WeekEvent tags an upcoming-week event with its weekday name.
type WeekEvent struct {
	calendarEntity.CalendarEvent
	Weekday string `json:"weekday"`
}

type TaskItem struct {
	Title           string `json:"title"`
	EstimateMinutes int    `json:"estimate_minutes"`
	Category        string `json:"category,omitempty"`
}

type TaskSummary struct {
	PendingTasks         []TaskItem `json:"pending_tasks"`
	HasUpcomingDeadlines bool       `json:"has_upcoming_deadlines"`
}

// ScheduleContextResponse is the composed read-model the assistant layer
// consumes. Assembled per request, never persisted.
type ScheduleContextResponse struct {
	TodayEvents        []calendarEntity.CalendarEvent `json:"today_events"`
	UpcomingWeekEvents []WeekEvent                    `json:"upcoming_week_events"`
	FreeTimeSlots      []entity.FreeTimeSlot          `json:"free_time_slots"`
	CurrentInstant     time.Time                      `json:"current_instant"`
	NextCommitment     *calendarEntity.CalendarEvent  `json:"next_commitment,omitempty"`
	Tasks              TaskSummary                    `json:"tasks"`
}
