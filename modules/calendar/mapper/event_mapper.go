package mapper

import (
	"time"

	"dayflow-api/core/constants"
	"dayflow-api/core/logger"
	"dayflow-api/modules/calendar/dto"
	"dayflow-api/modules/calendar/entity"
)

// ToCalendarEvent normalizes one provider item. Returns false when the item
// cannot yield a valid event (unparseable times, end not after start).
func ToCalendarEvent(item dto.GoogleCalendarEvent) (entity.CalendarEvent, bool) {
	start, ok := parseEventTime(item.Start)
	if !ok {
		return entity.CalendarEvent{}, false
	}
	end, ok := parseEventTime(item.End)
	if !ok {
		return entity.CalendarEvent{}, false
	}
	if !end.After(start) {
		return entity.CalendarEvent{}, false
	}

	title := item.Summary
	if title == "" {
		title = constants.UntitledEventTitle
	}

	return entity.CalendarEvent{
		ID:          item.ID,
		Title:       title,
		Start:       start,
		End:         end,
		Source:      entity.SourceRemote,
		Description: item.Description,
		Location:    item.Location,
	}, true
}

// ToCalendarEvents normalizes a provider listing, dropping cancelled items
// and anything that fails normalization.
func ToCalendarEvents(items []dto.GoogleCalendarEvent) []entity.CalendarEvent {
	events := make([]entity.CalendarEvent, 0, len(items))
	for _, item := range items {
		if item.Status == "cancelled" {
			continue
		}
		event, ok := ToCalendarEvent(item)
		if !ok {
			logger.Warn("EventMapper:Skipped", "event_id", item.ID)
			continue
		}
		events = append(events, event)
	}
	return events
}

// parseEventTime accepts a timed dateTime or an all-day date.
func parseEventTime(et dto.EventTime) (time.Time, bool) {
	if et.DateTime != "" {
		t, err := time.Parse(time.RFC3339, et.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if et.Date != "" {
		loc := time.UTC
		if et.TimeZone != "" {
			if l, err := time.LoadLocation(et.TimeZone); err == nil {
				loc = l
			}
		}
		t, err := time.ParseInLocation("2006-01-02", et.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
