package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified content of a bearer token: the user it was issued
// to and when it was issued. IssuedAt is what the access middleware compares
// against the user's password-change time.
type Claims struct {
	UserID   string
	IssuedAt time.Time
}

// TokenIssuer issues and verifies signed bearer tokens. The signing secret
// and expiry window are fixed at construction from process configuration.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

// NewTokenIssuer creates a token issuer with the given secret and expiry.
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue creates a signed token binding the given user ID, valid from now
// until now plus the configured expiry.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		Issuer:    "bookvault",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signedToken, nil
}

// Verify parses and validates a token, returning its claims. It fails on a
// bad signature, a non-HMAC signing method, a malformed payload, or expiry.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, fmt.Errorf("token missing subject or issued-at")
	}

	return &Claims{
		UserID:   claims.Subject,
		IssuedAt: claims.IssuedAt.Time,
	}, nil
}
