package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// AI
	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration

	// Moods
	Timezone     string
	HistoryLimit int

	// Logging
	LogRetentionDays int

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	SentryDSN   string

	location *time.Location
}

var defaults = map[string]any{
	"DB_HOST":     "localhost",
	"DB_PORT":     "5432",
	"DB_USER":     "postgres",
	"DB_PASSWORD": "",
	"DB_NAME":     "moody",
	"DB_SSLMODE":  "disable",

	"JWT_SECRET":         "",
	"JWT_ACCESS_EXPIRY":  "15m",
	"JWT_REFRESH_EXPIRY": "720h",

	"GEMINI_API_KEY": "",
	"GEMINI_MODEL":   "gemini-2.5-flash",
	"AI_TIMEOUT":     "30s",

	"MOOD_TIMEZONE": "UTC",
	"HISTORY_LIMIT": 100,

	"LOG_RETENTION_DAYS": 30,

	"PORT":         "3001",
	"CORS_ORIGINS": "*",
	"APP_ENV":      "development",
	"SENTRY_DSN":   "",
}

// Load reads configuration from the environment, a .env file in the working
// directory and, when path is set, a config file. Environment wins.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSSLMode:  v.GetString("DB_SSLMODE"),

		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTAccessExpiry:  parseDuration(v.GetString("JWT_ACCESS_EXPIRY"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(v.GetString("JWT_REFRESH_EXPIRY"), 720*time.Hour),

		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
		GeminiModel:  v.GetString("GEMINI_MODEL"),
		AITimeout:    parseDuration(v.GetString("AI_TIMEOUT"), 30*time.Second),

		Timezone:     v.GetString("MOOD_TIMEZONE"),
		HistoryLimit: v.GetInt("HISTORY_LIMIT"),

		LogRetentionDays: v.GetInt("LOG_RETENTION_DAYS"),

		Port:        v.GetString("PORT"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),
		AppEnv:      v.GetString("APP_ENV"),
		SentryDSN:   v.GetString("SENTRY_DSN"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid MOOD_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 100
	}
	if cfg.LogRetentionDays <= 0 {
		cfg.LogRetentionDays = 30
	}

	return cfg, nil
}

// Location is the zone used for calendar-day boundaries of every user.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
