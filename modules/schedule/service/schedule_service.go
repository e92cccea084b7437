package service

import (
	"context"
	"strings"
	"time"

	"dayflow-api/core/errors"
	"dayflow-api/core/logger"
	"dayflow-api/core/utils"
	"dayflow-api/modules/schedule/dto"
	"dayflow-api/modules/schedule/entity"
	"dayflow-api/modules/schedule/repository"
)

// ScheduleService owns CRUD over locally authored schedule items.
type ScheduleService interface {
	ListItems(ctx context.Context, userID string, timeMin, timeMax time.Time) ([]entity.ScheduleItem, *errors.AppError)
	CreateItem(ctx context.Context, userID string, req *dto.ScheduleItemRequest) (*entity.ScheduleItem, *errors.AppError)
	DeleteItem(ctx context.Context, userID, itemID string) *errors.AppError
}

type scheduleService struct {
	store repository.ScheduleStore
}

func NewScheduleService(store repository.ScheduleStore) ScheduleService {
	return &scheduleService{store: store}
}

func (s *scheduleService) ListItems(ctx context.Context, userID string, timeMin, timeMax time.Time) ([]entity.ScheduleItem, *errors.AppError) {
	items, err := s.store.ListScheduleItems(ctx, userID, timeMin, timeMax)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStorage, "failed to load schedule items", err)
	}
	if items == nil {
		items = []entity.ScheduleItem{}
	}
	return items, nil
}

func (s *scheduleService) CreateItem(ctx context.Context, userID string, req *dto.ScheduleItemRequest) (*entity.ScheduleItem, *errors.AppError) {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "schedule item title is required", nil)
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "start time must be RFC3339", err)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end time must be RFC3339", err)
	}
	if !end.After(start) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "end time must be after start time", nil)
	}

	now := time.Now()
	item := &entity.ScheduleItem{
		ID:           utils.GenerateID(),
		CreatedAt:    now,
		UpdatedAt:    now,
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		StartTime:    start,
		EndTime:      end,
		RemoteMirror: req.RemoteMirror,
	}

	if err := s.store.CreateScheduleItem(ctx, item); err != nil {
		logger.Error("ScheduleService:CreateItem:Error", "error", err, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrStorage, "failed to save schedule item", err)
	}
	return item, nil
}

// DeleteItem is idempotent; deleting an absent item is not an error.
func (s *scheduleService) DeleteItem(ctx context.Context, userID, itemID string) *errors.AppError {
	if itemID == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "schedule item id is required", nil)
	}
	if err := s.store.DeleteScheduleItem(ctx, userID, itemID); err != nil {
		return errors.NewAppError(errors.ErrStorage, "failed to delete schedule item", err)
	}
	return nil
}
