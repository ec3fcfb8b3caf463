package utils

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueSessionToken(secret, "session-1", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := ParseSessionToken(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if id != "session-1" {
		t.Errorf("expected session-1, got %q", id)
	}
}

func TestParseSessionTokenRejects(t *testing.T) {
	secret := []byte("test-secret")

	expired, err := IssueSessionToken(secret, "session-1", time.Now().Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	otherKey, err := IssueSessionToken([]byte("other"), "session-1", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	noSubject, err := IssueSessionToken(secret, "", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := map[string]string{
		"expired":     expired,
		"wrong key":   otherKey,
		"no subject":  noSubject,
		"garbage":     "not-a-token",
		"empty token": "",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSessionToken(secret, tok)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
