package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether a JWT-shaped access token carries an exp claim
// in the past. Opaque tokens, and JWTs without exp, are never expired here; the
// signature is not checked since the backend owns verification.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}
