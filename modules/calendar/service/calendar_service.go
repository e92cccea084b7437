package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dayflow-api/core/constants"
	"dayflow-api/core/errors"
	"dayflow-api/core/logger"
	"dayflow-api/modules/calendar/dto"
	"dayflow-api/modules/calendar/entity"
	"dayflow-api/modules/calendar/mapper"
	vaultEntity "dayflow-api/modules/vault/entity"
	vaultService "dayflow-api/modules/vault/service"

	"golang.org/x/oauth2"
)

// refreshSkew renews an access token slightly before its reported expiry.
const refreshSkew = 5 * time.Minute

// CalendarService proxies event CRUD against the remote provider. Every
// operation checks for a usable credential before touching the network, so
// callers can tell "not connected" apart from "provider rejected us".
type CalendarService interface {
	ListEvents(ctx context.Context, userID, calendarID string, timeMin, timeMax time.Time) ([]entity.CalendarEvent, *errors.AppError)
	CreateEvent(ctx context.Context, userID, calendarID string, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, userID, calendarID, eventID string, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError)
	DeleteEvent(ctx context.Context, userID, calendarID, eventID string) *errors.AppError
}

type calendarService struct {
	vault       vaultService.Vault
	oauthConfig *oauth2.Config
	client      *http.Client
}

func NewCalendarService(vault vaultService.Vault, oauthConfig *oauth2.Config, client *http.Client) CalendarService {
	if client == nil {
		client = &http.Client{Timeout: constants.GoogleAPITimeout}
	}
	return &calendarService{
		vault:       vault,
		oauthConfig: oauthConfig,
		client:      client,
	}
}

func (s *calendarService) ListEvents(ctx context.Context, userID, calendarID string, timeMin, timeMax time.Time) ([]entity.CalendarEvent, *errors.AppError) {
	accessToken, appErr := s.accessToken(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	params := url.Values{}
	params.Add("singleEvents", "true")
	params.Add("orderBy", "startTime")
	params.Add("timeMin", timeMin.Format(time.RFC3339))
	params.Add("timeMax", timeMax.Format(time.RFC3339))
	apiURL := s.eventsURL(calendarID) + "?" + params.Encode()

	body, status, appErr := s.doProviderCall(ctx, http.MethodGet, apiURL, accessToken, nil)
	if appErr != nil {
		return nil, appErr
	}
	if status != http.StatusOK {
		return nil, s.mapProviderError("ListEvents", status, body)
	}

	var listResponse dto.GoogleEventsListResponse
	if err := json.Unmarshal(body, &listResponse); err != nil {
		logger.Error("CalendarService:ListEvents:Unmarshal:Error", "error", err, "user_id", userID)
		return nil, errors.NewAppError(errors.ErrUpstream, "failed to parse provider response", err)
	}

	return mapper.ToCalendarEvents(listResponse.Items), nil
}

func (s *calendarService) CreateEvent(ctx context.Context, userID, calendarID string, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError) {
	start, end, appErr := validateEventRequest(req)
	if appErr != nil {
		return nil, appErr
	}

	accessToken, appErr := s.accessToken(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	payload := buildEventPayload(req, start, end)
	body, status, appErr := s.doProviderCall(ctx, http.MethodPost, s.eventsURL(calendarID), accessToken, payload)
	if appErr != nil {
		return nil, appErr
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, s.mapProviderError("CreateEvent", status, body)
	}

	return eventResponseFromProvider(body, req)
}

func (s *calendarService) UpdateEvent(ctx context.Context, userID, calendarID, eventID string, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError) {
	start, end, appErr := validateEventRequest(req)
	if appErr != nil {
		return nil, appErr
	}
	if eventID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "event id is required", nil)
	}

	accessToken, appErr := s.accessToken(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	payload := buildEventPayload(req, start, end)
	apiURL := s.eventsURL(calendarID) + "/" + url.PathEscape(eventID)
	body, status, appErr := s.doProviderCall(ctx, http.MethodPut, apiURL, accessToken, payload)
	if appErr != nil {
		return nil, appErr
	}
	if status != http.StatusOK {
		return nil, s.mapProviderError("UpdateEvent", status, body)
	}

	return eventResponseFromProvider(body, req)
}

func (s *calendarService) DeleteEvent(ctx context.Context, userID, calendarID, eventID string) *errors.AppError {
	if eventID == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "event id is required", nil)
	}

	accessToken, appErr := s.accessToken(ctx, userID)
	if appErr != nil {
		return appErr
	}

	apiURL := s.eventsURL(calendarID) + "/" + url.PathEscape(eventID)
	body, status, appErr := s.doProviderCall(ctx, http.MethodDelete, apiURL, accessToken, nil)
	if appErr != nil {
		return appErr
	}
	switch status {
	case http.StatusNoContent, http.StatusOK:
		return nil
	case http.StatusGone:
		// The provider reports already-deleted events as gone.
		return errors.NewAppError(errors.ErrNotFound, "calendar event not found", nil)
	default:
		return s.mapProviderError("DeleteEvent", status, body)
	}
}

// accessToken resolves a usable access token for the user, refreshing an
// expired one through the provider. Absence or unreadable credentials both
// surface as Unauthenticated so the caller's remedy is the same:
// reauthorize.
func (s *calendarService) accessToken(ctx context.Context, userID string) (string, *errors.AppError) {
	bundle, appErr := s.vault.Load(ctx, userID)
	if appErr != nil {
		if errors.Is(appErr, errors.ErrCorruption) {
			return "", errors.NewAppError(errors.ErrUnauthenticated, "stored credentials are unreadable, reauthorization required", appErr)
		}
		return "", appErr
	}
	if bundle == nil {
		return "", errors.NewAppError(errors.ErrUnauthenticated, "no calendar connection for this user", nil)
	}

	expiry := bundle.Expiry()
	if expiry.IsZero() || time.Now().Before(expiry.Add(-refreshSkew)) {
		return bundle.AccessToken, nil
	}

	return s.refreshAccessToken(ctx, userID, bundle)
}

func (s *calendarService) refreshAccessToken(ctx context.Context, userID string, bundle *vaultEntity.CredentialBundle) (string, *errors.AppError) {
	if bundle.RefreshToken == "" {
		return "", errors.NewAppError(errors.ErrUnauthenticated, "access token expired and no refresh token is available", nil)
	}

	logger.Info("CalendarService:refreshAccessToken:Refreshing", "user_id", userID)

	tokenSource := s.oauthConfig.TokenSource(ctx, &oauth2.Token{
		RefreshToken: bundle.RefreshToken,
	})
	newToken, err := tokenSource.Token()
	if err != nil {
		logger.Error("CalendarService:refreshAccessToken:Error", "error", err, "user_id", userID)
		return "", errors.NewAppError(errors.ErrUnauthenticated, "failed to refresh access token, reauthorization required", err)
	}

	bundle.AccessToken = newToken.AccessToken
	if newToken.RefreshToken != "" {
		bundle.RefreshToken = newToken.RefreshToken
	}
	if !newToken.Expiry.IsZero() {
		bundle.ExpiresAt = newToken.Expiry.UnixMilli()
	}

	if appErr := s.vault.Save(ctx, userID, bundle); appErr != nil {
		// The refreshed token still works for this request; the next one
		// will refresh again.
		logger.Warn("CalendarService:refreshAccessToken:SaveFailed", "error", appErr, "user_id", userID)
	}

	return bundle.AccessToken, nil
}

func (s *calendarService) eventsURL(calendarID string) string {
	if calendarID == "" {
		calendarID = constants.DefaultCalendarID
	}
	return constants.GoogleCalendarAPIBase + "/calendars/" + url.PathEscape(calendarID) + "/events"
}

func (s *calendarService) doProviderCall(ctx context.Context, method, apiURL, accessToken string, payload any) ([]byte, int, *errors.AppError) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, errors.NewAppError(errors.ErrInternalServer, "failed to encode request", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return nil, 0, errors.NewAppError(errors.ErrInternalServer, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error("CalendarService:doProviderCall:Error", "error", err, "method", method)
		return nil, 0, errors.NewAppError(errors.ErrUpstream, "calendar provider is unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, errors.NewAppError(errors.ErrUpstream, "failed to read provider response", err)
	}
	return body, resp.StatusCode, nil
}

// mapProviderError translates provider statuses into the local taxonomy. The
// raw status and body travel in the wrapped error for diagnostics; the
// message is what users may see.
func (s *calendarService) mapProviderError(op string, status int, body []byte) *errors.AppError {
	logger.Error("CalendarService:"+op+":ProviderError", "status", status, "body", string(body))
	raw := fmt.Errorf("provider status %d: %s", status, string(body))

	switch status {
	case http.StatusNotFound:
		return errors.NewAppError(errors.ErrNotFound, "calendar event not found", raw)
	case http.StatusForbidden:
		return errors.NewAppError(errors.ErrForbidden, "calendar access denied by provider", raw)
	case http.StatusUnauthorized:
		return errors.NewAppError(errors.ErrUnauthenticated, "provider rejected the stored credentials, reauthorization required", raw)
	default:
		return errors.NewAppError(errors.ErrUpstream, "calendar provider error", raw)
	}
}

// validateEventRequest rejects bad input before any network call.
func validateEventRequest(req *dto.EventRequest) (time.Time, time.Time, *errors.AppError) {
	if req == nil || strings.TrimSpace(req.Title) == "" {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "event title is required", nil)
	}
	if req.StartTime == "" || req.EndTime == "" {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "event start and end times are required", nil)
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "start time must be RFC3339", err)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "end time must be RFC3339", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.NewAppError(errors.ErrInvalidInput, "end time must be after start time", nil)
	}
	return start, end, nil
}

func buildEventPayload(req *dto.EventRequest, start, end time.Time) dto.GoogleCalendarEvent {
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	return dto.GoogleCalendarEvent{
		Summary:     req.Title,
		Description: req.Description,
		Location:    req.Location,
		Start: dto.EventTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: timezone,
		},
		End: dto.EventTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: timezone,
		},
	}
}

func eventResponseFromProvider(body []byte, req *dto.EventRequest) (*dto.EventResponse, *errors.AppError) {
	var created dto.GoogleCalendarEvent
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, errors.NewAppError(errors.ErrUpstream, "failed to parse provider response", err)
	}
	return &dto.EventResponse{
		EventID:     created.ID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}, nil
}
