package jwtverifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerify_RoundTrip(t *testing.T) {
	v, err := New("s3cret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tok, err := v.Issue("user-7", "u7@test.dev", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := v.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-7" || claims.Email != "u7@test.dev" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	v, _ := New("s3cret")
	issued := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return issued }

	tok, err := v.Issue("user-7", "", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	v.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := v.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	a, _ := New("secret-a")
	b, _ := New("secret-b")

	tok, _ := a.Issue("user-7", "", time.Hour)
	if _, err := b.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RejectsMissingSubject(t *testing.T) {
	v, _ := New("s3cret")
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.Verify(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNew_RequiresSecret(t *testing.T) {
	if _, err := New("  "); !errors.Is(err, ErrSecretRequired) {
		t.Fatalf("expected ErrSecretRequired, got %v", err)
	}
}
