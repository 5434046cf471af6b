package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrScopeMismatch  = errors.New("token scope mismatch")
	ErrOriginMismatch = errors.New("token origin mismatch")
)

// ScopeEventSend is the only capability this service mints.
const ScopeEventSend = "event:send"

const defaultIssuer = "geo-alert"

// Claims binds the capability scope and the requesting origin into the
// signed payload. Verification recomputes the origin match against the
// current request, so a leaked token is useless from another origin.
type Claims struct {
	Scope  string `json:"scope"`
	Origin string `json:"origin"`
	jwt.RegisteredClaims
}

// Config configures an Authority. Secret is required; it is passed in
// explicitly rather than read from the environment here.
type Config struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// Authority issues and verifies origin-bound capability tokens.
// It is stateless and safe for concurrent use.
type Authority struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewAuthority creates an Authority from cfg.
func NewAuthority(cfg Config) (*Authority, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 300 * time.Second
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}
	return &Authority{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (a *Authority) TTL() time.Duration { return a.ttl }

// Issue mints a signed token scoped to "event:send" and bound to origin.
func (a *Authority) Issue(origin string) (string, error) {
	now := a.now()
	claims := Claims{
		Scope:  ScopeEventSend,
		Origin: origin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer, and expiry, then the scope and the
// origin binding against requestOrigin. It has no side effects.
func (a *Authority) Verify(token, requestOrigin string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Scope != ScopeEventSend {
		return nil, ErrScopeMismatch
	}
	if claims.Origin == "" || claims.Origin != requestOrigin {
		return nil, ErrOriginMismatch
	}
	return claims, nil
}
