package auth_test

import (
	"testing"

	"chordserve/internal/auth"
)

func TestAuthenticateMatchesConfiguredKey(t *testing.T) {
	store := auth.NewKeyStore([]string{"first-key-0123456789", "second-key-0123456789"}, false)

	if !store.Authenticate("second-key-0123456789") {
		t.Fatal("expected configured key to authenticate")
	}
	if store.Authenticate("unknown-key") {
		t.Fatal("unknown key must not authenticate")
	}
	if store.Authenticate("") {
		t.Fatal("empty key must not authenticate")
	}
	if store.Authenticate("first-key-012345678") {
		t.Fatal("prefix of a key must not authenticate")
	}
}

func TestAuthenticateOpenModeAdmitsEverything(t *testing.T) {
	store := auth.NewKeyStore(nil, true)
	if !store.Authenticate("") {
		t.Fatal("open mode should admit requests without a key")
	}
	if !store.Authenticate("anything") {
		t.Fatal("open mode should admit any key")
	}
}

func TestAuthenticateEmptySetEnforcedDeniesAll(t *testing.T) {
	store := auth.NewKeyStore(nil, false)
	if store.Authenticate("anything") {
		t.Fatal("empty enforced key set must deny every request")
	}
}

func TestNewKeyStoreCleansInput(t *testing.T) {
	store := auth.NewKeyStore([]string{" dup ", "dup", "", "  "}, false)
	if store.KeyCount() != 1 {
		t.Fatalf("expected 1 distinct key, got %d", store.KeyCount())
	}
	if !store.Authenticate("dup") {
		t.Fatal("trimmed key should authenticate")
	}
}

func TestWeakKeyCount(t *testing.T) {
	store := auth.NewKeyStore([]string{"short", "long-enough-key-0123456789"}, false)
	if got := store.WeakKeyCount(); got != 1 {
		t.Fatalf("WeakKeyCount = %d, want 1", got)
	}
}
