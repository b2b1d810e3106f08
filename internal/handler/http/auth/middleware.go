// Package auth identifies the acting user from an HS256 bearer token.
//
// The token's "sub" claim carries the user id as a decimal string and "exp"
// is mandatory. Issuing tokens belongs to an external identity service;
// IssueToken exists for tooling and tests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"favorite-feed/internal/handler/http/respond"
)

type ctxKey string

const ctxActor ctxKey = "actor_id"

var (
	errMissingBearer = errors.New("missing bearer token")
	errInvalidToken  = errors.New("invalid token")
	errTokenExpired  = errors.New("token expired")
	errInvalidSub    = errors.New("invalid sub claim")
)

// Authz returns middleware that rejects requests without a valid bearer
// token with 401 and stores the acting user id in the request context.
// Public endpoints pass through untouched.
func Authz(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			actorID, err := validateJWT(r.Header.Get("Authorization"), secret)
			RecordAuthzCheckDuration(time.Since(start).Seconds())
			if err != nil {
				RecordAuthRequest(reason(err))
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}
			RecordAuthRequest("success")

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actorID)))
		})
	}
}

// ActorFromContext returns the authenticated user id.
func ActorFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxActor).(int64)
	return id, ok && id > 0
}

// WithActor stores the authenticated user id in ctx.
func WithActor(ctx context.Context, actorID int64) context.Context {
	return context.WithValue(ctx, ctxActor, actorID)
}

func validateJWT(authz string, secret []byte) (int64, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return 0, errMissingBearer
	}
	tokenString := strings.TrimPrefix(authz, prefix)

	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, errTokenExpired
		}
		return 0, errInvalidToken
	}
	if !tok.Valid {
		return 0, errInvalidToken
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, errInvalidSub
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidSub
	}
	return id, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, errMissingBearer):
		return "missing"
	case errors.Is(err, errTokenExpired):
		return "expired"
	case errors.Is(err, errInvalidSub):
		return "invalid_sub"
	default:
		return "invalid"
	}
}
