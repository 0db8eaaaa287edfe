package authtoken

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerify(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	tok, err := s.Issue(" user-1 ")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	sub, err := s.Subject(tok)
	if err != nil || sub != "user-1" {
		t.Fatalf("Subject=%q err=%v", sub, err)
	}
}

func TestRejectsBadTokens(t *testing.T) {
	s := NewSigner("secret", time.Minute)
	other := NewSigner("other", time.Minute)
	tok, _ := other.Issue("u1")
	if _, err := s.Subject(tok); err == nil {
		t.Fatalf("foreign signature accepted")
	}

	start := time.Now()
	s.now = func() time.Time { return start }
	tok, _ = s.Issue("u1")
	s.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := s.Subject(tok); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expired token err=%v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}})
	raw, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := s.Subject(raw); err == nil {
		t.Fatalf("alg none accepted")
	}

	if _, err := NewSigner("", 0).Subject(tok); !errors.Is(err, ErrNoSecret) {
		t.Fatalf("missing secret err=%v", err)
	}
	if _, err := s.Issue(""); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("empty subject err=%v", err)
	}
}
