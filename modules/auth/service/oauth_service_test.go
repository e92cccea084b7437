package service

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"dayflow-api/core/errors"
	vaultEntity "dayflow-api/modules/vault/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type fakeCache struct {
	issued map[string]time.Time
}

func newFakeCache() *fakeCache {
	return &fakeCache{issued: map[string]time.Time{}}
}

func (f *fakeCache) RegisterOAuthState(_ context.Context, jti string, ttl time.Duration) error {
	f.issued[jti] = time.Now().Add(ttl)
	return nil
}

func (f *fakeCache) ConsumeOAuthState(_ context.Context, jti string) (bool, error) {
	exp, ok := f.issued[jti]
	if !ok || time.Now().After(exp) {
		return false, nil
	}
	delete(f.issued, jti)
	return true, nil
}

func (f *fakeCache) Close() error { return nil }

type fakeVault struct {
	bundles map[string]*vaultEntity.CredentialBundle
}

func newFakeVault() *fakeVault {
	return &fakeVault{bundles: map[string]*vaultEntity.CredentialBundle{}}
}

func (f *fakeVault) Save(_ context.Context, userID string, bundle *vaultEntity.CredentialBundle) *errors.AppError {
	f.bundles[userID] = bundle
	return nil
}

func (f *fakeVault) Load(_ context.Context, userID string) (*vaultEntity.CredentialBundle, *errors.AppError) {
	return f.bundles[userID], nil
}

func (f *fakeVault) Remove(_ context.Context, userID string) *errors.AppError {
	delete(f.bundles, userID)
	return nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestService(vault *fakeVault, cache *fakeCache) *AuthService {
	oauthConfig := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:7070/api/v1/public/calendar/oauth/callback",
		Scopes: []string{
			"https://www.googleapis.com/auth/calendar.readonly",
			"https://www.googleapis.com/auth/calendar.events",
		},
		Endpoint: google.Endpoint,
	}
	return NewAuthService(oauthConfig, "state-secret", vault, cache)
}

func startAndExtractState(t *testing.T, svc *AuthService) string {
	t.Helper()
	authURL, appErr := svc.StartAuthorization(context.Background(), "user-1", false)
	require.Nil(t, appErr)
	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	return parsed.Query().Get("state")
}

func TestStartAuthorization_URLShape(t *testing.T) {
	svc := newTestService(newFakeVault(), newFakeCache())

	authURL, appErr := svc.StartAuthorization(context.Background(), "user-1", true)
	require.Nil(t, appErr)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	q := parsed.Query()

	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "force", q.Get("approval_prompt"))
	assert.Contains(t, q.Get("scope"), "calendar.events")
	assert.Contains(t, q.Get("scope"), "calendar.readonly")
	assert.NotEmpty(t, q.Get("state"))

	claims, appErr := svc.parseState(q.Get("state"))
	require.Nil(t, appErr)
	assert.Equal(t, "user-1", claims.Subject)
	assert.True(t, claims.Onboarding)
}

func TestStartAuthorization_MissingConfig(t *testing.T) {
	svc := NewAuthService(&oauth2.Config{}, "state-secret", newFakeVault(), newFakeCache())

	_, appErr := svc.StartAuthorization(context.Background(), "user-1", false)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConfiguration, appErr.Code)
}

func TestCompleteAuthorization_ProviderDenied(t *testing.T) {
	svc := newTestService(newFakeVault(), newFakeCache())

	_, appErr := svc.CompleteAuthorization(context.Background(), "", "whatever", "access_denied")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAuthDenied, appErr.Code)
}

func TestCompleteAuthorization_MissingCode(t *testing.T) {
	svc := newTestService(newFakeVault(), newFakeCache())

	_, appErr := svc.CompleteAuthorization(context.Background(), "", "whatever", "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrAuthMissingCode, appErr.Code)
}

func TestCompleteAuthorization_InvalidState(t *testing.T) {
	svc := newTestService(newFakeVault(), newFakeCache())

	_, appErr := svc.CompleteAuthorization(context.Background(), "code", "not-a-state-token", "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthenticated, appErr.Code)
}

func TestCompleteAuthorization_ReplayedStateRejected(t *testing.T) {
	vault := newFakeVault()
	cache := newFakeCache()
	svc := newTestService(vault, cache)
	state := startAndExtractState(t, svc)

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
		Transport: roundTripFunc(func(_ *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK,
				`{"access_token":"at","token_type":"Bearer","refresh_token":"rt","expires_in":3600}`), nil
		}),
	})

	_, appErr := svc.CompleteAuthorization(ctx, "code", state, "")
	require.Nil(t, appErr)

	_, appErr = svc.CompleteAuthorization(ctx, "code", state, "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrUnauthenticated, appErr.Code)
}

func TestCompleteAuthorization_ExchangeFailure(t *testing.T) {
	svc := newTestService(newFakeVault(), newFakeCache())
	state := startAndExtractState(t, svc)

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
		Transport: roundTripFunc(func(_ *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusInternalServerError, `{"error":"server_error"}`), nil
		}),
	})

	_, appErr := svc.CompleteAuthorization(ctx, "code", state, "")
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrTokenExchangeFailed, appErr.Code)
}

func TestCompleteAuthorization_SavesBundle(t *testing.T) {
	vault := newFakeVault()
	svc := newTestService(vault, newFakeCache())
	state := startAndExtractState(t, svc)

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "POST", req.Method)
			return jsonResponse(http.StatusOK,
				`{"access_token":"at","token_type":"Bearer","refresh_token":"rt","expires_in":3600,"scope":"https://www.googleapis.com/auth/calendar.events"}`), nil
		}),
	})

	result, appErr := svc.CompleteAuthorization(ctx, "code", state, "")
	require.Nil(t, appErr)
	assert.True(t, result.Connected)
	assert.Equal(t, "user-1", result.UserID)

	bundle := vault.bundles["user-1"]
	require.NotNil(t, bundle)
	assert.Equal(t, "at", bundle.AccessToken)
	assert.Equal(t, "rt", bundle.RefreshToken)
	assert.Equal(t, "Bearer", bundle.TokenType)
	assert.Contains(t, bundle.Scope, "calendar.events")
	assert.Greater(t, bundle.ExpiresAt, time.Now().UnixMilli())
}

func TestDisconnect_Idempotent(t *testing.T) {
	vault := newFakeVault()
	svc := newTestService(vault, newFakeCache())
	ctx := context.Background()

	vault.bundles["user-1"] = &vaultEntity.CredentialBundle{AccessToken: "at"}

	require.Nil(t, svc.Disconnect(ctx, "user-1"))
	assert.Nil(t, vault.bundles["user-1"])
	require.Nil(t, svc.Disconnect(ctx, "user-1"))
}
