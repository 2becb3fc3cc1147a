package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "")
		t.Setenv("LLM_PROVIDER", "")
		t.Setenv("ALLOWED_USER_IDS", "")
		t.Setenv("CATEGORIZE_TIMEOUT", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DefaultCurrency != "SGD" {
			t.Errorf("expected SGD, got %q", cfg.DefaultCurrency)
		}
		if cfg.StoreDriver != StorePostgres {
			t.Errorf("expected postgres driver, got %q", cfg.StoreDriver)
		}
		if cfg.CategorizeTimeout != 10*time.Second {
			t.Errorf("expected 10s categorize timeout, got %v", cfg.CategorizeTimeout)
		}
		if len(cfg.AllowedUserIDs) != 0 {
			t.Errorf("expected empty allowlist, got %v", cfg.AllowedUserIDs)
		}
	})

	t.Run("parses_allowlist", func(t *testing.T) {
		t.Setenv("ALLOWED_USER_IDS", " 42, 7 ,,")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.AllowedUserIDs) != 2 || cfg.AllowedUserIDs[0] != 42 || cfg.AllowedUserIDs[1] != 7 {
			t.Errorf("expected [42 7], got %v", cfg.AllowedUserIDs)
		}
	})

	t.Run("rejects_bad_allowlist", func(t *testing.T) {
		t.Setenv("ALLOWED_USER_IDS", "42,alice")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for non-numeric user id")
		}
	})

	t.Run("rejects_unknown_store_driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "mongo")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for unknown store driver")
		}
	})

	t.Run("rejects_negative_timeout", func(t *testing.T) {
		t.Setenv("CATEGORIZE_TIMEOUT", "-1s")

		if _, err := Load(); err == nil {
			t.Fatal("expected error for negative timeout")
		}
	})
}

func TestLocation(t *testing.T) {
	t.Run("known_zone", func(t *testing.T) {
		cfg := &Config{Timezone: "Asia/Singapore"}
		if got := cfg.Location().String(); got != "Asia/Singapore" {
			t.Errorf("expected Asia/Singapore, got %q", got)
		}
	})

	t.Run("unknown_zone_falls_back", func(t *testing.T) {
		cfg := &Config{Timezone: "Mars/Olympus"}
		if cfg.Location() != time.Local {
			t.Error("expected time.Local fallback")
		}
	})
}
