package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"dayflow-api/core/errors"
	"dayflow-api/modules/calendar/dto"
	vaultEntity "dayflow-api/modules/vault/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeVault struct {
	bundles map[string]*vaultEntity.CredentialBundle
	loadErr *errors.AppError
}

func newFakeVault() *fakeVault {
	return &fakeVault{bundles: map[string]*vaultEntity.CredentialBundle{}}
}

func (f *fakeVault) Save(_ context.Context, userID string, bundle *vaultEntity.CredentialBundle) *errors.AppError {
	f.bundles[userID] = bundle
	return nil
}

func (f *fakeVault) Load(_ context.Context, userID string) (*vaultEntity.CredentialBundle, *errors.AppError) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.bundles[userID], nil
}

func (f *fakeVault) Remove(_ context.Context, userID string) *errors.AppError {
	delete(f.bundles, userID)
	return nil
}

type recordingTransport struct {
	calls     int
	lastReq   *http.Request
	responses []*http.Response
}

func (r *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r.calls++
	r.lastReq = req
	resp := r.responses[0]
	if len(r.responses) > 1 {
		r.responses = r.responses[1:]
	}
	return resp, nil
}

func providerResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func freshBundle() *vaultEntity.CredentialBundle {
	return &vaultEntity.CredentialBundle{
		AccessToken:  "valid-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
		TokenType:    "Bearer",
	}
}

func newTestGateway(vault *fakeVault, transport *recordingTransport) CalendarService {
	return NewCalendarService(vault, &oauth2.Config{}, &http.Client{Transport: transport})
}

func validRequest() *dto.EventRequest {
	return &dto.EventRequest{
		Title:     "Team sync",
		StartTime: "2026-09-01T10:00:00Z",
		EndTime:   "2026-09-01T11:00:00Z",
	}
}

func TestCreateEvent_BlankTitleRejectedBeforeNetwork(t *testing.T) {
	transport := &recordingTransport{}
	vault := newFakeVault()
	vault.bundles["user-1"] = freshBundle()
	svc := newTestGateway(vault, transport)

	req := validRequest()
	req.Title = "   "

	_, appErr := svc.CreateEvent(context.Background(), "user-1", "", req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	assert.Zero(t, transport.calls)
}

func TestUpdateEvent_EndBeforeStartRejected(t *testing.T) {
	transport := &recordingTransport{}
	vault := newFakeVault()
	vault.bundles["user-1"] = freshBundle()
	svc := newTestGateway(vault, transport)

	req := validRequest()
	req.StartTime = "2026-09-01T11:00:00Z"
	req.EndTime = "2026-09-01T10:00:00Z"

	_, appErr := svc.UpdateEvent(context.Background(), "user-1", "", "evt-1", req)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	assert.Zero(t, transport.calls)
}

func TestListEvents_NoConnection(t *testing.T) {
	transport := &recordingTransport{}
	svc := newTestGateway(newFakeVault(), transport)

	_, appErr := svc.ListEvents(context.Background(), "user-1", "",
		time.Now(), time.Now().Add(time.Hour))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthenticated, appErr.Code)
	assert.Zero(t, transport.calls)
}

func TestListEvents_CorruptCredentialsSurfaceAsUnauthenticated(t *testing.T) {
	vault := newFakeVault()
	vault.loadErr = errors.NewAppError(errors.ErrCorruption, "failed to decrypt stored credentials", nil)
	svc := newTestGateway(vault, &recordingTransport{})

	_, appErr := svc.ListEvents(context.Background(), "user-1", "",
		time.Now(), time.Now().Add(time.Hour))
	require.NotNil(t, appErr)
	assert.True(t, errors.Is(appErr, errors.ErrUnauthenticated))
}

func TestListEvents_Success(t *testing.T) {
	transport := &recordingTransport{responses: []*http.Response{
		providerResponse(http.StatusOK, `{"items":[
			{"id":"e1","summary":"Standup","status":"confirmed",
			 "start":{"dateTime":"2026-09-01T09:00:00Z"},"end":{"dateTime":"2026-09-01T09:15:00Z"}},
			{"id":"e2","summary":"Ghost","status":"cancelled",
			 "start":{"dateTime":"2026-09-01T10:00:00Z"},"end":{"dateTime":"2026-09-01T11:00:00Z"}},
			{"id":"e3","status":"confirmed",
			 "start":{"dateTime":"2026-09-01T12:00:00Z"},"end":{"dateTime":"2026-09-01T13:00:00Z"}}
		]}`),
	}}
	vault := newFakeVault()
	vault.bundles["user-1"] = freshBundle()
	svc := newTestGateway(vault, transport)

	events, appErr := svc.ListEvents(context.Background(), "user-1", "",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC))
	require.Nil(t, appErr)
	require.Len(t, events, 2)

	assert.Equal(t, "Standup", events[0].Title)
	assert.Equal(t, "Untitled", events[1].Title)

	require.NotNil(t, transport.lastReq)
	assert.Equal(t, "Bearer valid-token", transport.lastReq.Header.Get("Authorization"))
	q := transport.lastReq.URL.Query()
	assert.Equal(t, "true", q.Get("singleEvents"))
	assert.Equal(t, "startTime", q.Get("orderBy"))
	assert.Contains(t, transport.lastReq.URL.Path, "/calendars/primary/events")
}

func TestListEvents_EmptyCalendar(t *testing.T) {
	transport := &recordingTransport{responses: []*http.Response{
		providerResponse(http.StatusOK, `{"items":[]}`),
	}}
	vault := newFakeVault()
	vault.bundles["user-1"] = freshBundle()
	svc := newTestGateway(vault, transport)

	events, appErr := svc.ListEvents(context.Background(), "user-1", "",
		time.Now(), time.Now().Add(time.Hour))
	require.Nil(t, appErr)
	assert.Empty(t, events)
}

func TestListEvents_ProviderForbidden(t *testing.T) {
	transport := &recordingTransport{responses: []*http.Response{
		providerResponse(http.StatusForbidden, `{"error":{"message":"insufficient permissions"}}`),
	}}
	vault := newFakeVault()
	vault.bundles["user-1"] = freshBundle()
	svc := newTestGateway(vault, transport)

	_, appErr := svc.ListEvents(context.Background(), "user-1", "",
		time.Now(), time.Now().Add(time.Hour))
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestCreateEvent_Success(t *testing.T) {
	transport := &recordingTransport{responses: []*http.Response{
		providerResponse(http.StatusOK, `{"id":"created-1","summary":"Team sync"}`),
	}}
	vault := newFakeVault()
	vault.bundles["user-1"] = freshBundle()
	svc := newTestGateway(vault, transport)

	resp, appErr := svc.CreateEvent(context.Background(), "user-1", "", validRequest())
	require.Nil(t, appErr)
	assert.Equal(t, "created-1", resp.EventID)
	assert.Equal(t, "Team sync", resp.Title)
	assert.Equal(t, http.MethodPost, transport.lastReq.Method)
	assert.Equal(t, "application/json", transport.lastReq.Header.Get("Content-Type"))
}

func TestUpdateEvent_NotFound(t *testing.T) {
	transport := &recordingTransport{responses: []*http.Response{
		providerResponse(http.StatusNotFound, `{"error":{"message":"Not Found"}}`),
	}}
	vault := newFakeVault()
	vault.bundles["user-1"] = freshBundle()
	svc := newTestGateway(vault, transport)

	_, appErr := svc.UpdateEvent(context.Background(), "user-1", "", "missing-evt", validRequest())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
	assert.Equal(t, http.MethodPut, transport.lastReq.Method)
}

func TestDeleteEvent_Success(t *testing.T) {
	transport := &recordingTransport{responses: []*http.Response{
		providerResponse(http.StatusNoContent, ``),
	}}
	vault := newFakeVault()
	vault.bundles["user-1"] = freshBundle()
	svc := newTestGateway(vault, transport)

	appErr := svc.DeleteEvent(context.Background(), "user-1", "", "evt-1")
	require.Nil(t, appErr)
	assert.Equal(t, http.MethodDelete, transport.lastReq.Method)
	assert.Contains(t, transport.lastReq.URL.Path, "/events/evt-1")
}

func TestDeleteEvent_AlreadyGone(t *testing.T) {
	transport := &recordingTransport{responses: []*http.Response{
		providerResponse(http.StatusGone, `{"error":{"message":"Resource has been deleted"}}`),
	}}
	vault := newFakeVault()
	vault.bundles["user-1"] = freshBundle()
	svc := newTestGateway(vault, transport)

	appErr := svc.DeleteEvent(context.Background(), "user-1", "", "evt-1")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestDeleteEvent_MissingID(t *testing.T) {
	transport := &recordingTransport{}
	vault := newFakeVault()
	vault.bundles["user-1"] = freshBundle()
	svc := newTestGateway(vault, transport)

	appErr := svc.DeleteEvent(context.Background(), "user-1", "", "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	assert.Zero(t, transport.calls)
}
