package service

import (
	"context"
	"time"

	"dayflow-api/core/constants"
	"dayflow-api/core/errors"
	calendarEntity "dayflow-api/modules/calendar/entity"
	"dayflow-api/modules/schedule/dto"
	"dayflow-api/modules/schedule/entity"
	"dayflow-api/modules/schedule/repository"
)

// ContextAssembler composes the reconciled timeline, availability analysis
// and pending tasks into the payload the assistant layer consumes.
type ContextAssembler interface {
	BuildContext(ctx context.Context, userID string, now time.Time) (*dto.ScheduleContextResponse, *errors.AppError)
}

type contextService struct {
	reconciler Reconciler
	store      repository.ScheduleStore
	analyzer   *AvailabilityAnalyzer
	location   *time.Location
}

func NewContextService(reconciler Reconciler, store repository.ScheduleStore, analyzer *AvailabilityAnalyzer, location *time.Location) ContextAssembler {
	if location == nil {
		location = time.UTC
	}
	return &contextService{
		reconciler: reconciler,
		store:      store,
		analyzer:   analyzer,
		location:   location,
	}
}

// BuildContext is pure composition: reconcile a week from today's midnight,
// split today from the rest, analyze today's gaps, summarize pending tasks.
// No side effects, safe to retry.
func (s *contextService) BuildContext(ctx context.Context, userID string, now time.Time) (*dto.ScheduleContextResponse, *errors.AppError) {
	localNow := now.In(s.location)
	dayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, s.location)
	dayEnd := dayStart.AddDate(0, 0, 1)
	windowEnd := dayStart.AddDate(0, 0, constants.ContextWindowDays)

	timeline, appErr := s.reconciler.Reconcile(ctx, userID, dayStart, windowEnd)
	if appErr != nil {
		return nil, appErr
	}

	todayEvents := []calendarEntity.CalendarEvent{}
	upcomingWeek := []dto.WeekEvent{}
	for _, event := range timeline {
		if event.Start.Before(dayEnd) {
			todayEvents = append(todayEvents, event)
			continue
		}
		upcomingWeek = append(upcomingWeek, dto.WeekEvent{
			CalendarEvent: event,
			Weekday:       event.Start.In(s.location).Weekday().String(),
		})
	}

	tasks, err := s.store.ListPendingTasks(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load pending tasks", err)
	}
	summary := summarizeTasks(tasks)

	return &dto.ScheduleContextResponse{
		TodayEvents:        todayEvents,
		UpcomingWeekEvents: upcomingWeek,
		FreeTimeSlots:      s.analyzer.ComputeFreeSlots(todayEvents, localNow),
		CurrentInstant:     localNow,
		NextCommitment:     s.analyzer.NextCommitment(todayEvents, localNow),
		Tasks:              summary,
	}, nil
}

// summarizeTasks keeps the caller's ordering, truncates to the first few and
// flags pressure when more pending tasks remain than fit a glance. Completed
// tasks are skipped even if the store hands them over.
func summarizeTasks(tasks []entity.Task) dto.TaskSummary {
	pending := make([]dto.TaskItem, 0, constants.MaxContextTasks)
	count := 0
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		count++
		if len(pending) < constants.MaxContextTasks {
			pending = append(pending, dto.TaskItem{
				Title:           task.Title,
				EstimateMinutes: task.EstimateMinutes,
				Category:        task.Category,
			})
		}
	}
	return dto.TaskSummary{
		PendingTasks:         pending,
		HasUpcomingDeadlines: count > constants.TaskPressureCount,
	}
}
