package constants

import "time"

// Request handling
const (
	DefaultTimeout   = 10 * time.Second
	ShutdownTimeout  = 15 * time.Second
	GoogleAPITimeout = 5 * time.Second
)

// Database connection pool
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Google Calendar API
const (
	GoogleCalendarAPIBase = "https://www.googleapis.com/calendar/v3"
	DefaultCalendarID     = "primary"
	UntitledEventTitle    = "Untitled"
)

// OAuth flow
const (
	OAuthStateTTL      = 10 * time.Minute
	RedisKeyOAuthState = "oauth_state:"
)

// Credential vault. The salt is fixed so the derived key is stable across
// restarts; secrecy comes from the configured secret, not the salt.
const (
	VaultKeySalt         = "dayflow-credential-vault-v1"
	VaultKeyLength       = 32
	VaultKDFIterations   = 4096
	VaultBackendPostgres = "postgres"
	VaultBackendS3       = "s3"
)

// Schedule context assembly
const (
	ContextWindowDays    = 7
	MaxContextTasks      = 5
	TaskPressureCount    = 3
	FirstGapThresholdMin = 30
	InterGapThresholdMin = 15
)

// HTTP
const (
	HeaderUserID = "X-User-ID"
)
