package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_ACCESS_EXPIRY", "MOOD_TIMEZONE", "HISTORY_LIMIT", "GEMINI_MODEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "3001" {
		t.Errorf("expected port '3001', got %q", cfg.Port)
	}
	if cfg.JWTAccessExpiry != 15*time.Minute {
		t.Errorf("expected access expiry 15m, got %v", cfg.JWTAccessExpiry)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("expected UTC location, got %v", cfg.Location())
	}
	if cfg.HistoryLimit != 100 {
		t.Errorf("expected history limit 100, got %d", cfg.HistoryLimit)
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("expected gemini model 'gemini-2.5-flash', got %q", cfg.GeminiModel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_ACCESS_EXPIRY", "1h")
	t.Setenv("HISTORY_LIMIT", "25")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("expected port '9000', got %q", cfg.Port)
	}
	if cfg.JWTAccessExpiry != time.Hour {
		t.Errorf("expected access expiry 1h, got %v", cfg.JWTAccessExpiry)
	}
	if cfg.HistoryLimit != 25 {
		t.Errorf("expected history limit 25, got %d", cfg.HistoryLimit)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_NAME", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "moody.yaml")
	content := "PORT: \"7000\"\nDB_NAME: moody_test\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "7000" {
		t.Errorf("expected port '7000', got %q", cfg.Port)
	}
	if cfg.DBName != "moody_test" {
		t.Errorf("expected db name 'moody_test', got %q", cfg.DBName)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadInvalidTimezone(t *testing.T) {
	t.Setenv("MOOD_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown timezone")
	}
}

func TestParseDurationFallback(t *testing.T) {
	if got := parseDuration("soon", 5*time.Second); got != 5*time.Second {
		t.Errorf("expected fallback 5s, got %v", got)
	}
	if got := parseDuration("2m", 5*time.Second); got != 2*time.Minute {
		t.Errorf("expected 2m, got %v", got)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "moody", DBPort: "5432", DBSSLMode: "disable"}
	want := "host=db user=u password=p dbname=moody port=5432 sslmode=disable TimeZone=UTC"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
