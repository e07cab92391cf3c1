package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bookmarket/seller-system/internal/api/metrics"
	"github.com/bookmarket/seller-system/internal/core/domain"
)

const defaultTokenTTL = 30 * time.Minute

// JWTIssuer implements ports.TokenIssuer with HS256-signed JWTs. The subject
// claim carries the seller's email; no token state is kept server-side.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTIssuer creates an issuer signing with the given symmetric secret.
// A non-positive ttl falls back to 30 minutes.
func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *JWTIssuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.secret)
}

// Validate verifies signature and expiry and returns the subject email.
// Forged, malformed and expired tokens all surface as ErrInvalidToken so the
// response cannot be used as an oracle.
func (i *JWTIssuer) Validate(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
		return "", domain.ErrInvalidToken
	}

	metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
	return claims.Subject, nil
}
