package sessiontoken

import (
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	claims := Claims{CurrentLine: 12, StackDepth: 2, SourceHash: "abc123"}
	tok, err := Sign(claims, "secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	got, err := Verify(tok, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != claims {
		t.Fatalf("expected %+v, got %+v", claims, got)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := Sign(Claims{CurrentLine: 1}, "secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := Verify(tok, "other-secret"); err == nil {
		t.Fatalf("expected verification to fail with the wrong secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tok, err := Sign(Claims{CurrentLine: 1}, "secret", -time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := Verify(tok, "secret"); err == nil {
		t.Fatalf("expected verification to fail for an expired token")
	}
}
