package service

import (
	"time"

	"dayflow-api/core/constants"
	calendarEntity "dayflow-api/modules/calendar/entity"
	"dayflow-api/modules/schedule/entity"
)

// AvailabilityAnalyzer computes free-time gaps over a day's sorted events.
// The first gap of the day must be substantial to be worth surfacing;
// between-meeting gaps are useful even when short, hence the asymmetric
// thresholds.
type AvailabilityAnalyzer struct {
	FirstGapMinutes int
	InterGapMinutes int
}

func NewAvailabilityAnalyzer() *AvailabilityAnalyzer {
	return &AvailabilityAnalyzer{
		FirstGapMinutes: constants.FirstGapThresholdMin,
		InterGapMinutes: constants.InterGapThresholdMin,
	}
}

// ComputeFreeSlots takes today's events, already sorted ascending by start,
// and returns the gaps worth surfacing. With no events there is no anchor to
// measure against, so the result is empty. Single linear pass, overlapping
// events collapse through a rolling furthest-end.
func (a *AvailabilityAnalyzer) ComputeFreeSlots(dayEvents []calendarEntity.CalendarEvent, now time.Time) []entity.FreeTimeSlot {
	slots := []entity.FreeTimeSlot{}
	if len(dayEvents) == 0 {
		return slots
	}

	first := dayEvents[0]
	if minutesBetween(now, first.Start) > a.FirstGapMinutes {
		slots = append(slots, newSlot(now, first.Start))
	}

	rollingEnd := first.End
	for _, event := range dayEvents[1:] {
		if minutesBetween(rollingEnd, event.Start) > a.InterGapMinutes {
			slots = append(slots, newSlot(rollingEnd, event.Start))
		}
		if event.End.After(rollingEnd) {
			rollingEnd = event.End
		}
	}

	return slots
}

// NextCommitment returns the earliest event starting at or after now, or nil
// when the rest of the day is clear.
func (a *AvailabilityAnalyzer) NextCommitment(dayEvents []calendarEntity.CalendarEvent, now time.Time) *calendarEntity.CalendarEvent {
	for i := range dayEvents {
		if !dayEvents[i].Start.Before(now) {
			return &dayEvents[i]
		}
	}
	return nil
}

func newSlot(start, end time.Time) entity.FreeTimeSlot {
	return entity.FreeTimeSlot{
		Start:           start,
		End:             end,
		DurationMinutes: minutesBetween(start, end),
	}
}

// minutesBetween floors to whole minutes; negative when to precedes from.
func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from).Minutes())
}
