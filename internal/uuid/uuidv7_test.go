package uuid

import (
	"strings"
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNew(t *testing.T) {
	t.Run("generates_version_7", func(t *testing.T) {
		id := New()
		parsed, err := googleuuid.Parse(id)
		if err != nil {
			t.Fatalf("expected valid uuid, got %q: %v", id, err)
		}
		if parsed.Version() != 7 {
			t.Errorf("expected version 7, got %d", parsed.Version())
		}
	})

	t.Run("ids_are_unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			id := New()
			if seen[id] {
				t.Fatalf("duplicate id %s", id)
			}
			seen[id] = true
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("normalizes_case", func(t *testing.T) {
		id := New()
		got, err := Parse(strings.ToUpper(id))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != id {
			t.Errorf("expected %s, got %s", id, got)
		}
	})

	t.Run("rejects_garbage", func(t *testing.T) {
		if _, err := Parse("not-a-uuid"); err == nil {
			t.Error("expected error")
		}
		if IsValid("not-a-uuid") {
			t.Error("expected IsValid to be false")
		}
	})
}
