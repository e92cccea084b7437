package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"dayflow-api/core/errors"
	"dayflow-api/core/logger"
	calendarEntity "dayflow-api/modules/calendar/entity"
	calendarService "dayflow-api/modules/calendar/service"
	"dayflow-api/modules/schedule/entity"
	"dayflow-api/modules/schedule/repository"

	"github.com/gosimple/slug"
)

// Reconciler merges locally authored schedule items with remote provider
// events into one ordered timeline for a window.
type Reconciler interface {
	Reconcile(ctx context.Context, userID string, windowStart, windowEnd time.Time) ([]calendarEntity.CalendarEvent, *errors.AppError)
}

type reconcilerService struct {
	gateway calendarService.CalendarService
	store   repository.ScheduleStore
}

func NewReconciler(gateway calendarService.CalendarService, store repository.ScheduleStore) Reconciler {
	return &reconcilerService{
		gateway: gateway,
		store:   store,
	}
}

// Reconcile fetches both sources concurrently and waits for both. A missing
// or unreachable provider degrades to an empty remote sequence so the local
// schedule is never blocked by a calendar outage; local store failures
// propagate.
func (s *reconcilerService) Reconcile(ctx context.Context, userID string, windowStart, windowEnd time.Time) ([]calendarEntity.CalendarEvent, *errors.AppError) {
	var (
		wg        sync.WaitGroup
		remote    []calendarEntity.CalendarEvent
		remoteErr *errors.AppError
		items     []entity.ScheduleItem
		localErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		remote, remoteErr = s.gateway.ListEvents(ctx, userID, "", windowStart, windowEnd)
	}()
	go func() {
		defer wg.Done()
		items, localErr = s.store.ListScheduleItems(ctx, userID, windowStart, windowEnd)
	}()
	wg.Wait()

	if remoteErr != nil {
		switch remoteErr.Code {
		case errors.ErrUnauthenticated, errors.ErrUpstream:
			logger.Warn("Reconciler:Reconcile:RemoteUnavailable", "code", remoteErr.Code, "user_id", userID)
			remote = nil
		default:
			return nil, remoteErr
		}
	}
	if localErr != nil {
		logger.Error("Reconciler:Reconcile:LocalStore:Error", "error", localErr, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load schedule items", localErr)
	}

	local := localEventsFrom(items, remote)

	merged := make([]calendarEntity.CalendarEvent, 0, len(remote)+len(local))
	merged = append(merged, remote...)
	merged = append(merged, local...)

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		if a.Source != b.Source {
			return a.Source == calendarEntity.SourceLocal
		}
		return a.Title < b.Title
	})

	return merged, nil
}

// localEventsFrom normalizes schedule items, dropping invalid rows and
// mirror items whose provider copy already appears in the remote set.
func localEventsFrom(items []entity.ScheduleItem, remote []calendarEntity.CalendarEvent) []calendarEntity.CalendarEvent {
	remoteKeys := make(map[string]struct{}, len(remote))
	for _, event := range remote {
		remoteKeys[correlationKey(event.Title, event.Start)] = struct{}{}
	}

	local := make([]calendarEntity.CalendarEvent, 0, len(items))
	for _, item := range items {
		if !item.EndTime.After(item.StartTime) {
			logger.Warn("Reconciler:localEventsFrom:InvalidItem", "item_id", item.ID)
			continue
		}
		if item.RemoteMirror {
			if _, synced := remoteKeys[correlationKey(item.Title, item.StartTime)]; synced {
				continue
			}
		}
		local = append(local, calendarEntity.CalendarEvent{
			ID:          item.ID,
			Title:       item.Title,
			Start:       item.StartTime,
			End:         item.EndTime,
			Source:      calendarEntity.SourceLocal,
			Description: item.Description,
			Location:    item.Location,
		})
	}
	return local
}

// correlationKey matches a local mirror item to its provider-synced copy by
// normalized title and start minute. Title normalization tolerates the small
// formatting drift providers introduce.
func correlationKey(title string, start time.Time) string {
	return slug.Make(title) + "@" + start.UTC().Truncate(time.Minute).Format(time.RFC3339)
}
