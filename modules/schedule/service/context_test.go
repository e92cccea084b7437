package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dayflow-api/core/errors"
	calendarEntity "dayflow-api/modules/calendar/entity"
	scheduleEntity "dayflow-api/modules/schedule/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssembler(gateway *fakeGateway, store *fakeScheduleStore) ContextAssembler {
	return NewContextService(NewReconciler(gateway, store), store, NewAvailabilityAnalyzer(), time.UTC)
}

func pendingTask(title string) scheduleEntity.Task {
	return scheduleEntity.Task{Title: title, EstimateMinutes: 25}
}

func TestBuildContext_SplitsTodayFromWeek(t *testing.T) {
	gateway := &fakeGateway{events: []calendarEntity.CalendarEvent{
		event("Today meeting", at(10, 0), at(11, 0)),
		event("Tomorrow review", at(10, 0).AddDate(0, 0, 1), at(11, 0).AddDate(0, 0, 1)),
		event("Friday demo", at(15, 0).AddDate(0, 0, 3), at(16, 0).AddDate(0, 0, 3)),
	}}
	store := &fakeScheduleStore{}
	assembler := newAssembler(gateway, store)

	result, appErr := assembler.BuildContext(context.Background(), "user-1", at(9, 0))
	require.Nil(t, appErr)

	require.Len(t, result.TodayEvents, 1)
	assert.Equal(t, "Today meeting", result.TodayEvents[0].Title)

	require.Len(t, result.UpcomingWeekEvents, 2)
	assert.Equal(t, "Tomorrow review", result.UpcomingWeekEvents[0].Title)
	assert.Equal(t, "Wednesday", result.UpcomingWeekEvents[0].Weekday)
	assert.Equal(t, "Friday", result.UpcomingWeekEvents[1].Weekday)

	require.NotNil(t, result.NextCommitment)
	assert.Equal(t, "Today meeting", result.NextCommitment.Title)
	require.Len(t, result.FreeTimeSlots, 1)
	assert.Equal(t, 60, result.FreeTimeSlots[0].DurationMinutes)
}

func TestBuildContext_LocalOnlyWhenNeverConnected(t *testing.T) {
	gateway := &fakeGateway{
		listErr: errors.NewAppError(errors.ErrUnauthenticated, "no calendar connection for this user", nil),
	}
	store := &fakeScheduleStore{items: []scheduleEntity.ScheduleItem{
		scheduleItem("Gym", at(18, 0), at(19, 0), false),
	}}
	assembler := newAssembler(gateway, store)

	result, appErr := assembler.BuildContext(context.Background(), "user-1", at(9, 0))
	require.Nil(t, appErr)

	require.Len(t, result.TodayEvents, 1)
	assert.Equal(t, "Gym", result.TodayEvents[0].Title)
	assert.Equal(t, calendarEntity.SourceLocal, result.TodayEvents[0].Source)
	require.Len(t, result.FreeTimeSlots, 1)
	assert.Equal(t, at(9, 0), result.FreeTimeSlots[0].Start)
	assert.Equal(t, at(18, 0), result.FreeTimeSlots[0].End)
}

func TestBuildContext_EmptyDay(t *testing.T) {
	assembler := newAssembler(&fakeGateway{}, &fakeScheduleStore{})

	result, appErr := assembler.BuildContext(context.Background(), "user-1", at(9, 0))
	require.Nil(t, appErr)

	assert.Empty(t, result.TodayEvents)
	assert.Empty(t, result.FreeTimeSlots)
	assert.Nil(t, result.NextCommitment)
	assert.False(t, result.Tasks.HasUpcomingDeadlines)
}

func TestBuildContext_TaskTruncationAndPressure(t *testing.T) {
	store := &fakeScheduleStore{}
	for i := 1; i <= 7; i++ {
		store.tasks = append(store.tasks, pendingTask(fmt.Sprintf("Task %d", i)))
	}
	assembler := newAssembler(&fakeGateway{}, store)

	result, appErr := assembler.BuildContext(context.Background(), "user-1", at(9, 0))
	require.Nil(t, appErr)

	require.Len(t, result.Tasks.PendingTasks, 5)
	assert.Equal(t, "Task 1", result.Tasks.PendingTasks[0].Title)
	assert.Equal(t, "Task 5", result.Tasks.PendingTasks[4].Title)
	assert.True(t, result.Tasks.HasUpcomingDeadlines)
}

func TestBuildContext_FewTasksNoPressure(t *testing.T) {
	store := &fakeScheduleStore{tasks: []scheduleEntity.Task{
		pendingTask("One"),
		pendingTask("Two"),
		{Title: "Done already", Completed: true},
	}}
	assembler := newAssembler(&fakeGateway{}, store)

	result, appErr := assembler.BuildContext(context.Background(), "user-1", at(9, 0))
	require.Nil(t, appErr)

	assert.Len(t, result.Tasks.PendingTasks, 2)
	assert.False(t, result.Tasks.HasUpcomingDeadlines)
}

func TestBuildContext_WindowBoundaries(t *testing.T) {
	gateway := &fakeGateway{}
	store := &fakeScheduleStore{}
	assembler := newAssembler(gateway, store)

	now := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	result, appErr := assembler.BuildContext(context.Background(), "user-1", now)
	require.Nil(t, appErr)
	assert.Equal(t, now, result.CurrentInstant)
	assert.Equal(t, 1, gateway.calls)
}
