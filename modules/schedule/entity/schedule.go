package entity

import (
	"time"

	"dayflow-api/core/entity"
)

// ScheduleItem is a locally authored calendar entry. The id is a locally
// minted nanoid token, unlike remote events whose ids belong to the provider.
// RemoteMirror marks items that were also pushed to the provider, so
// reconciliation can suppress the local copy once the provider echoes it
// back.
type ScheduleItem struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description,omitempty"`
	Location     string    `db:"location" json:"location,omitempty"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	EndTime      time.Time `db:"end_time" json:"end_time"`
	RemoteMirror bool      `db:"remote_mirror" json:"remote_mirror"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Task is a pending to-do supplied to the context payload.
type Task struct {
	entity.BaseEntity
	UserID          string `db:"user_id" json:"user_id"`
	Title           string `db:"title" json:"title"`
	EstimateMinutes int    `db:"estimate_minutes" json:"estimate_minutes"`
	Category        string `db:"category" json:"category,omitempty"`
	Completed       bool   `db:"completed" json:"completed"`
}

// FreeTimeSlot is a derived gap in the day's timeline, recomputed per
// request and never persisted.
type FreeTimeSlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
}
