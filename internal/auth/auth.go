package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AnkitRegmi1/TruSwap/internal/domain"
)

// Identity is the verified user behind a bearer credential.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Authenticator validates a bearer credential and yields the caller identity.
type Authenticator interface {
	Authenticate(token string) (Identity, error)
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// JWTAuthenticator verifies HMAC-signed JWTs carrying sub/email/name claims.
type JWTAuthenticator struct {
	secret   []byte
	issuer   string
	audience string
}

func NewJWTAuthenticator(secret, issuer, audience string) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}
}

func (a *JWTAuthenticator) Authenticate(token string) (Identity, error) {
	if token == "" {
		return Identity{}, domain.ErrUnauthenticated
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Identity{}, domain.ErrUnauthenticated
	}

	return Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
	}, nil
}
