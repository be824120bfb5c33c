package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avolkov/bloglist/internal/common/clock"
	"github.com/avolkov/bloglist/internal/common/jwtverify"
	"github.com/avolkov/bloglist/internal/observability/metrics"
	userdomain "github.com/avolkov/bloglist/internal/user/domain"
)

// TokenIssuer signs bearer tokens against an injected secret. A zero ttl
// omits the exp claim: validity then rests on signature verification alone.
type TokenIssuer struct {
	jwtSecret []byte
	clock     clock.Clock
	tokenTTL  time.Duration
}

func NewTokenIssuer(jwtSecret string, tokenTTL time.Duration, clk clock.Clock) *TokenIssuer {
	return &TokenIssuer{
		jwtSecret: []byte(jwtSecret),
		clock:     clk,
		tokenTTL:  tokenTTL,
	}
}

func (ti *TokenIssuer) IssueToken(user userdomain.User) (string, error) {
	now := ti.clock.Now()
	claims := jwt.MapClaims{
		"sub": string(user.ID),
		"usr": user.Username,
		"iat": now.Unix(),
	}
	if ti.tokenTTL > 0 {
		claims["exp"] = now.Add(ti.tokenTTL).Unix()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ti.jwtSecret)
	if err != nil {
		return "", err
	}

	metrics.TokensIssued.Inc()
	return tokenString, nil
}

func (ti *TokenIssuer) ParseToken(tokenString string) (jwtverify.Claims, error) {
	return jwtverify.ParseToken(tokenString, ti.jwtSecret)
}
