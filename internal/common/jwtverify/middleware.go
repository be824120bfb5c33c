package jwtverify

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/avolkov/bloglist/internal/common/errors"
	commonhttp "github.com/avolkov/bloglist/internal/common/http"
	"github.com/avolkov/bloglist/internal/common/logger"
	"github.com/avolkov/bloglist/internal/observability/metrics"
)

type Claims struct {
	UserID   string
	Username string
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

const bearerPrefix = "Bearer "

// ExtractToken returns the token following a case-insensitive "Bearer "
// prefix of the Authorization header, or the empty string. It never fails;
// an absent header is deferred to verification.
func ExtractToken(r *http.Request) string {
	raw := r.Header.Get("Authorization")
	if len(raw) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(raw[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return raw[len(bearerPrefix):]
}

// Middleware verifies the bearer token before the handler runs and injects
// the decoded claims into the request context. Every failure mode answers
// 401 with the same body so callers cannot probe which check failed.
func Middleware(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			claims, err := ParseToken(token, secretBytes)
			if err != nil {
				log.Warnf("token verification failed path=%s: %v", r.URL.Path, err)
				commonhttp.WriteError(w, http.StatusUnauthorized, commonerrors.ErrInvalidToken.Message())
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func FromContext(ctx context.Context) (Claims, bool) {
	val := ctx.Value(claimsKey)
	claims, ok := val.(Claims)
	return claims, ok
}

// WithClaims is a test hook for exercising handlers below the middleware.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ParseToken verifies an HS256 signature against secret and decodes the
// embedded identity. Empty, malformed and mis-signed tokens all map to
// ErrInvalidToken.
func ParseToken(tokenString string, secret []byte) (Claims, error) {
	metrics.TokenValidationsTotal.Inc()

	if tokenString == "" {
		metrics.TokenValidationsFailed.Inc()
		return Claims{}, commonerrors.ErrInvalidToken
	}

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidToken.WithCause(
				jwt.ErrTokenSignatureInvalid,
			)
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		metrics.TokenValidationsFailed.Inc()
		if err == nil {
			return Claims{}, commonerrors.ErrInvalidToken
		}
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		metrics.TokenValidationsFailed.Inc()
		return Claims{}, commonerrors.ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	username, _ := mapClaims["usr"].(string)
	if sub == "" || username == "" {
		metrics.TokenValidationsFailed.Inc()
		return Claims{}, commonerrors.ErrInvalidToken
	}

	return Claims{
		UserID:   sub,
		Username: username,
	}, nil
}
