package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT claims
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// validateJWT validates a bearer token and returns the claims. When an
// issuer is configured the iss claim must match it.
func validateJWT(tokenString, secret, issuer string) (*Claims, error) {
	claims := &Claims{}

	var opts []jwt.ParserOption
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("token has expired")
	}

	return claims, nil
}

// requireAuth gates a handler behind bearer-token validation. Reads
// never pass through here; only mutating routes are wrapped.
func (a *API) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.config.Auth.Enabled {
			next(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			a.respondJSON(w, errorResponse{Error: "missing bearer token"}, http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if _, err := validateJWT(tokenString, a.config.Auth.JWTSecret, a.config.Auth.Issuer); err != nil {
			a.logger.Warnw("Rejected bearer token", "error", err, "ip", getRealIP(r, a.config.API.TrustProxy))
			a.respondJSON(w, errorResponse{Error: "invalid or expired token"}, http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}
