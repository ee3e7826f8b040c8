package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config drives token verification and the hosted auth provider client.
type Config struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	Audience    string        `yaml:"audience"`
	ProviderURL string        `yaml:"provider_url"`
	AnonKey     string        `yaml:"anon_key"`
	Timeout     time.Duration `yaml:"timeout"`
}

var (
	ErrDisabled     = errors.New("auth disabled")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the access token payload issued by the auth provider.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// User identifies the caller of an authenticated request.
type User struct {
	ID    string
	Email string
}

// Verifier validates HS256 access tokens.
type Verifier struct {
	secret   []byte
	audience string
}

func NewVerifier(cfg Config) (*Verifier, error) {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret == "" {
		return nil, ErrDisabled
	}
	return &Verifier{secret: []byte(secret), audience: strings.TrimSpace(cfg.Audience)}, nil
}

// Verify checks signature, algorithm, expiry and audience and returns the token's user.
func (v *Verifier) Verify(token string) (User, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return User{}, ErrInvalidToken
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return User{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return User{ID: subject, Email: claims.Email}, nil
}
