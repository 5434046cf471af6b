package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-signing-secret"

func newTestAuthority(t *testing.T) *Authority {
	t.Helper()
	a, err := NewAuthority(Config{Secret: testSecret, TTL: 300 * time.Second})
	if err != nil {
		t.Fatalf("NewAuthority: %v", err)
	}
	return a
}

func TestAuthority_RequiresSecret(t *testing.T) {
	if _, err := NewAuthority(Config{}); err == nil {
		t.Fatal("NewAuthority with empty secret: want error, got nil")
	}
}

func TestIssueAndVerify(t *testing.T) {
	a := newTestAuthority(t)
	const origin = "https://app.example.com"

	token, err := a.Issue(origin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := a.Verify(token, origin)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Scope != ScopeEventSend {
		t.Errorf("claims.Scope = %q, want %q", claims.Scope, ScopeEventSend)
	}
	if claims.Origin != origin {
		t.Errorf("claims.Origin = %q, want %q", claims.Origin, origin)
	}
}

func TestVerify_OriginMismatch(t *testing.T) {
	a := newTestAuthority(t)
	token, err := a.Issue("https://a.example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := a.Verify(token, "https://b.example.com"); !errors.Is(err, ErrOriginMismatch) {
		t.Errorf("Verify with other origin = %v, want ErrOriginMismatch", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	a := newTestAuthority(t)
	issuedAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return issuedAt }

	token, err := a.Issue("https://app.example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	a.now = func() time.Time { return issuedAt.Add(301 * time.Second) }
	if _, err := a.Verify(token, "https://app.example.com"); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify after TTL = %v, want ErrExpiredToken", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	a := newTestAuthority(t)
	other, err := NewAuthority(Config{Secret: "a-different-secret"})
	if err != nil {
		t.Fatalf("NewAuthority: %v", err)
	}
	token, err := other.Issue("https://app.example.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := a.Verify(token, "https://app.example.com"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify with wrong signature = %v, want ErrInvalidToken", err)
	}
}

func TestVerify_ScopeMismatch(t *testing.T) {
	a := newTestAuthority(t)
	// Forge a token with the right key but the wrong scope.
	now := time.Now()
	claims := Claims{
		Scope:  "history:read",
		Origin: "https://app.example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    defaultIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}
	if _, err := a.Verify(token, "https://app.example.com"); !errors.Is(err, ErrScopeMismatch) {
		t.Errorf("Verify with wrong scope = %v, want ErrScopeMismatch", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	a := newTestAuthority(t)
	if _, err := a.Verify("not-a-jwt", "https://app.example.com"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify malformed = %v, want ErrInvalidToken", err)
	}
}

func TestOrigins(t *testing.T) {
	o := NewOrigins([]string{"https://app.example.com", "  ", ""})

	cases := []struct {
		origin string
		want   bool
	}{
		{"https://app.example.com", true},
		{"https://evil.example.com", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := o.Allowed(tc.origin); got != tc.want {
			t.Errorf("Allowed(%q) = %v, want %v", tc.origin, got, tc.want)
		}
	}

	o.Replace([]string{"https://other.example.com"})
	if o.Allowed("https://app.example.com") {
		t.Error("Allowed(old origin) = true after Replace, want false")
	}
	if !o.Allowed("https://other.example.com") {
		t.Error("Allowed(new origin) = false after Replace, want true")
	}
}
