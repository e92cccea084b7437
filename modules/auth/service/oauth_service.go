package service

import (
	"context"
	"fmt"
	"time"

	"dayflow-api/core/cache"
	"dayflow-api/core/config"
	"dayflow-api/core/constants"
	"dayflow-api/core/errors"
	"dayflow-api/core/logger"
	"dayflow-api/core/utils"
	"dayflow-api/modules/auth/dto"
	vaultEntity "dayflow-api/modules/vault/entity"
	vaultService "dayflow-api/modules/vault/service"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type AuthServiceInterface interface {
	StartAuthorization(ctx context.Context, userID string, onboarding bool) (string, *errors.AppError)
	CompleteAuthorization(ctx context.Context, code, state, providerError string) (*dto.ConnectionResult, *errors.AppError)
	Disconnect(ctx context.Context, userID string) *errors.AppError
}

type AuthService struct {
	oauthConfig *oauth2.Config
	stateSecret []byte
	vault       vaultService.Vault
	cache       cache.Cache
}

// NewGoogleOAuthConfig builds the provider config for the calendar scopes.
// Offline access with forced consent is requested at authorization time so a
// refresh token is issued on every pass, including repeat authorizations.
func NewGoogleOAuthConfig(cfg config.GoogleAPIConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/calendar.readonly",
			"https://www.googleapis.com/auth/calendar.events",
		},
		Endpoint: google.Endpoint,
	}
}

func NewAuthService(oauthConfig *oauth2.Config, stateSecret string, vault vaultService.Vault, cache cache.Cache) *AuthService {
	return &AuthService{
		oauthConfig: oauthConfig,
		stateSecret: []byte(stateSecret),
		vault:       vault,
		cache:       cache,
	}
}

// stateClaims is the signed payload of the OAuth state parameter. The token
// is opaque to the provider but self-describing on the way back: it names
// the user the callback belongs to without any server-side session.
type stateClaims struct {
	Onboarding bool `json:"onboarding,omitempty"`
	jwt.RegisteredClaims
}

func (service *AuthService) StartAuthorization(ctx context.Context, userID string, onboarding bool) (string, *errors.AppError) {
	if service.oauthConfig.ClientID == "" || service.oauthConfig.ClientSecret == "" || service.oauthConfig.RedirectURL == "" {
		return "", errors.NewAppError(errors.ErrConfiguration, "Google OAuth configuration is missing", nil)
	}

	jti := utils.GenerateRandomString(24)
	now := time.Now()
	claims := stateClaims{
		Onboarding: onboarding,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(constants.OAuthStateTTL)),
		},
	}

	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.stateSecret)
	if err != nil {
		logger.Error("AuthService:StartAuthorization:SignState:Error", "error", err, "user_id", userID)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to sign state token", err)
	}

	if err := service.cache.RegisterOAuthState(ctx, jti, constants.OAuthStateTTL); err != nil {
		logger.Error("AuthService:StartAuthorization:RegisterState:Error", "error", err, "user_id", userID)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to register state token", err)
	}

	return service.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

func (service *AuthService) CompleteAuthorization(ctx context.Context, code, state, providerError string) (*dto.ConnectionResult, *errors.AppError) {
	if providerError != "" {
		logger.Warn("AuthService:CompleteAuthorization:ProviderError", "provider_error", providerError)
		return nil, errors.NewAppError(errors.ErrAuthDenied, "authorization was denied by the provider", nil)
	}
	if code == "" {
		return nil, errors.NewAppError(errors.ErrAuthMissingCode, "authorization code is missing from the callback", nil)
	}

	claims, appErr := service.parseState(state)
	if appErr != nil {
		return nil, appErr
	}

	// One-time use: a replayed state is rejected even inside its expiry.
	used, err := service.cache.ConsumeOAuthState(ctx, claims.ID)
	if err != nil {
		logger.Error("AuthService:CompleteAuthorization:ConsumeState:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to validate state token", err)
	}
	if !used {
		logger.Warn("AuthService:CompleteAuthorization:StateReplayed", "jti", claims.ID)
		return nil, errors.NewAppError(errors.ErrUnauthenticated, "invalid or expired state token", nil)
	}

	token, err := service.oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:CompleteAuthorization:Exchange:Error", "error", err, "user_id", claims.Subject)
		return nil, errors.NewAppError(errors.ErrTokenExchangeFailed, "failed to exchange authorization code", err)
	}

	bundle := bundleFromToken(token)
	if appErr := service.vault.Save(ctx, claims.Subject, bundle); appErr != nil {
		return nil, appErr
	}

	logger.Info("AuthService:CompleteAuthorization:Connected",
		"user_id", claims.Subject,
		"has_refresh_token", bundle.RefreshToken != "",
	)

	return &dto.ConnectionResult{
		Connected:  true,
		UserID:     claims.Subject,
		Onboarding: claims.Onboarding,
	}, nil
}

// Disconnect removes the stored credential. Absence is not an error; calling
// this twice observes the same final state.
func (service *AuthService) Disconnect(ctx context.Context, userID string) *errors.AppError {
	return service.vault.Remove(ctx, userID)
}

func (service *AuthService) parseState(state string) (*stateClaims, *errors.AppError) {
	claims := &stateClaims{}
	_, err := jwt.ParseWithClaims(state, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return service.stateSecret, nil
	})
	if err != nil {
		logger.Warn("AuthService:parseState:Invalid", "error", err)
		return nil, errors.NewAppError(errors.ErrUnauthenticated, "invalid or expired state token", err)
	}
	if claims.Subject == "" {
		return nil, errors.NewAppError(errors.ErrUnauthenticated, "state token does not identify a user", nil)
	}
	return claims, nil
}

func bundleFromToken(token *oauth2.Token) *vaultEntity.CredentialBundle {
	bundle := &vaultEntity.CredentialBundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
	}
	if !token.Expiry.IsZero() {
		bundle.ExpiresAt = token.Expiry.UnixMilli()
	}
	if scope, ok := token.Extra("scope").(string); ok {
		bundle.Scope = scope
	}
	return bundle
}
