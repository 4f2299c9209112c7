package session

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager("test-secret", "aware-api", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := mgr.Issue(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewManager("secret-a", "aware-api", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	verifier, err := NewManager("secret-b", "aware-api", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := issuer.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	issuer, err := NewManager("shared-secret", "someone-else", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	verifier, err := NewManager("shared-secret", "aware-api", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, err := issuer.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager("test-secret", "aware-api", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	mgr.ttl = -time.Minute

	token, err := mgr.Issue(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := mgr.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	mgr, err := NewManager("test-secret", "aware-api", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := mgr.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewManager("", "aware-api", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
}
