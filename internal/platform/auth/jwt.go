// Package auth implements the middleware AuthPort over HS256 bearer tokens
package auth

import (
	"net/http"
	"strings"
	"time"

	perr "meetscribe/internal/platform/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the user id
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// JWT parses Authorization bearer tokens signed with a shared secret
type JWT struct {
	secret []byte
}

// NewJWT returns a JWT auth port
func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret)}
}

// Parse implements middleware.AuthPort
func (j *JWT) Parse(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", perr.Unauthorizedf("missing authorization header")
	}
	raw, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return "", perr.Unauthorizedf("malformed authorization header")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", perr.Unauthorizedf("invalid token")
	}
	if claims.UserID == "" {
		return "", perr.Unauthorizedf("token missing user id")
	}
	return claims.UserID, nil
}

// Sign issues a token for userID, used by tests and local tooling
func (j *JWT) Sign(userID string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(j.secret)
}
