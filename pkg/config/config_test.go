package config

import (
	"os"
	"testing"
)

func unsetEnv() {
	for _, k := range []string{
		"MEDTRACK_DB_PATH", "MEDTRACK_LOCALE", "MEDTRACK_SYNC",
		"MEDTRACK_CALENDAR_MIN_OFFSET", "MEDTRACK_CALENDAR_BATCH", "MEDTRACK_LOG_FORMAT",
	} {
		_ = os.Unsetenv(k)
	}
}

func TestConfigLoad_Defaults(t *testing.T) {
	unsetEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBPath != "" || cfg.Sync != "FULL" || cfg.Locale != "it" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	cal := cfg.Calendar
	if cal.MinOffset != -15 || cal.MaxOffset != 30 || cal.Batch != 15 || cal.EdgeThreshold != 100 {
		t.Fatalf("unexpected calendar defaults: %+v", cal)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	unsetEnv()
	_ = os.Setenv("MEDTRACK_CALENDAR_MIN_OFFSET", "-60")
	_ = os.Setenv("MEDTRACK_LOCALE", "en")
	defer unsetEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.Calendar.MinOffset != -60 || cfg.Locale != "en" {
		t.Fatalf("env override failed: %+v", cfg)
	}
}

func TestConfigLoad_InvalidBatch(t *testing.T) {
	unsetEnv()
	_ = os.Setenv("MEDTRACK_CALENDAR_BATCH", "0")
	defer unsetEnv()

	if _, err := New(); err == nil {
		t.Fatal("expected an error for a zero calendar batch")
	}
}
