package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	if cfg.StorageBackend != BackendFile {
		t.Fatalf("unexpected backend %q", cfg.StorageBackend)
	}
	if cfg.StoragePath != "notable.json" {
		t.Fatalf("unexpected storage path %q", cfg.StoragePath)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel)
	}
	if cfg.SoonHours != 24 || cfg.DebounceMillis != 400 {
		t.Fatalf("unexpected timing defaults %+v", cfg)
	}
	if cfg.SnippetBefore != 30 || cfg.SnippetAfter != 40 {
		t.Fatalf("unexpected snippet defaults %+v", cfg)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	configViper := NewViper()
	configViper.Set("storage.backend", "redis")

	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected validation error for unknown backend")
	}
}

func TestLoadRejectsEmptyStoragePath(t *testing.T) {
	configViper := NewViper()
	configViper.Set("storage.path", "")

	if _, err := Load(configViper); err == nil {
		t.Fatalf("expected validation error for empty storage path")
	}
}

func TestLoadRejectsNonPositiveTimings(t *testing.T) {
	cases := map[string]int{
		"reminder.soon_hours":   0,
		"autosave.debounce_ms":  -5,
		"search.snippet_before": 0,
		"search.snippet_after":  -1,
	}
	for key, value := range cases {
		configViper := NewViper()
		configViper.Set(key, value)
		if _, err := Load(configViper); err == nil {
			t.Fatalf("expected validation error for %s=%d", key, value)
		}
	}
}

func TestLoadHonorsOverrides(t *testing.T) {
	configViper := NewViper()
	configViper.Set("storage.backend", BackendSQLite)
	configViper.Set("storage.path", "notes.db")
	configViper.Set("reminder.soon_hours", 48)
	configViper.Set("autosave.debounce_ms", 150)

	cfg, err := Load(configViper)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.StorageBackend != BackendSQLite || cfg.StoragePath != "notes.db" {
		t.Fatalf("unexpected storage settings %+v", cfg)
	}
	if cfg.SoonWindow() != 48*time.Hour {
		t.Fatalf("unexpected soon window %s", cfg.SoonWindow())
	}
	if cfg.AutosaveDelay() != 150*time.Millisecond {
		t.Fatalf("unexpected autosave delay %s", cfg.AutosaveDelay())
	}
}
