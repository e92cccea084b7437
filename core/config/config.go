package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Server    ServerConfig
		Database  DatabaseConfig
		Redis     RedisConfig
		GoogleAPI GoogleAPIConfig
		Vault     VaultConfig
		Schedule  ScheduleConfig
		Log       LogConfig
	}

	ServerConfig struct {
		Port int
	}

	DatabaseConfig struct {
		Host     string
		Port     int
		User     string
		Password string
		DBName   string
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
	}

	GoogleAPIConfig struct {
		ClientID     string
		ClientSecret string
		RedirectURI  string
		// StateSecret signs the OAuth state token. Falls back to the vault
		// secret when unset.
		StateSecret string
	}

	VaultConfig struct {
		// Secret is the key-derivation input for credential encryption.
		// Startup fails when it is empty.
		Secret string
		// Backend selects the record store: "postgres" (default) or "s3".
		Backend  string
		S3Bucket string
		S3Region string
		// Static credentials for the S3 backend. Left empty outside of the
		// s3 backend.
		S3AccessKeyID     string
		S3SecretAccessKey string
	}

	ScheduleConfig struct {
		// Timezone is the IANA zone used to anchor "today". Defaults to UTC.
		Timezone string
	}

	LogConfig struct {
		Level  string
		Pretty bool
	}
)

var instance *Config

// Load reads .env (if present) and the environment into the typed config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "dayflow")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("VAULT_BACKEND", "postgres")
	v.SetDefault("SCHEDULE_TIMEZONE", "UTC")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURI:  v.GetString("GOOGLE_REDIRECT_URI"),
			StateSecret:  v.GetString("OAUTH_STATE_SECRET"),
		},
		Vault: VaultConfig{
			Secret:            v.GetString("VAULT_SECRET"),
			Backend:           v.GetString("VAULT_BACKEND"),
			S3Bucket:          v.GetString("VAULT_S3_BUCKET"),
			S3Region:          v.GetString("VAULT_S3_REGION"),
			S3AccessKeyID:     v.GetString("VAULT_S3_ACCESS_KEY_ID"),
			S3SecretAccessKey: v.GetString("VAULT_S3_SECRET_ACCESS_KEY"),
		},
		Schedule: ScheduleConfig{
			Timezone: v.GetString("SCHEDULE_TIMEZONE"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
	}

	if cfg.Vault.Secret == "" {
		return nil, fmt.Errorf("VAULT_SECRET is required")
	}
	if cfg.GoogleAPI.StateSecret == "" {
		cfg.GoogleAPI.StateSecret = cfg.Vault.Secret
	}

	instance = cfg
	return cfg, nil
}

func Get() *Config {
	return instance
}

// GetSafe returns the config and whether Load has run.
func GetSafe() (*Config, bool) {
	if instance == nil {
		return nil, false
	}
	return instance, true
}

// Set overrides the process config. Intended for tests.
func Set(cfg *Config) {
	instance = cfg
}
