package config

import (
	"os"
	"testing"
)

func TestLoadBuildsLegacyDSN(t *testing.T) {
	setEnv(t, map[string]string{
		"RENTGEAR_APP_ENV":     "dev",
		"RENTGEAR_APP_PORT":    "8080",
		"RENTGEAR_REDIS_URL":   "redis://localhost:6379/0",
		"RENTGEAR_JWT_SECRET":  "secret",
		"RENTGEAR_JWT_ISSUER":  "rentgear",
		"RENTGEAR_DB_HOST":     "localhost",
		"RENTGEAR_DB_USER":     "rentgear",
		"RENTGEAR_DB_PASSWORD": "pw",
		"RENTGEAR_DB_NAME":     "rentgear",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	want := "postgres://rentgear:pw@localhost:5432/rentgear?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("unexpected DSN: %s", cfg.DB.DSN)
	}
	if !cfg.App.IsDev() {
		t.Fatal("expected dev environment")
	}
	if cfg.Booking.MaxRangeDays != 180 {
		t.Fatalf("unexpected booking range default: %d", cfg.Booking.MaxRangeDays)
	}
}

func TestLoadMissingDBConfig(t *testing.T) {
	setEnv(t, map[string]string{
		"RENTGEAR_APP_ENV":    "dev",
		"RENTGEAR_APP_PORT":   "8080",
		"RENTGEAR_REDIS_URL":  "redis://localhost:6379/0",
		"RENTGEAR_JWT_SECRET": "secret",
		"RENTGEAR_JWT_ISSUER": "rentgear",
	})

	if _, err := Load(); err == nil {
		t.Fatal("expected error when neither DSN nor legacy DB vars are set")
	}
}

func setEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	os.Clearenv()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}
