// Package identity resolves the caller of a request to a user id or anonymous.
package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/article-engagement-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Headers read by HeaderGate, set by a trusted upstream gateway
const (
	UserIDHeader    = "X-User-ID"
	UserNameHeader  = "X-User-Name"
	UserEmailHeader = "X-User-Email"
)

// Identity is the authenticated caller. The zero value is anonymous.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// Anonymous is the identity of an unauthenticated caller
var Anonymous = Identity{}

// Authenticated reports whether the identity carries a user id
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// Is reports whether the identity is the given user
func (i Identity) Is(userID string) bool {
	return i.Authenticated() && i.UserID == userID
}

// Gate resolves a request's identity. Absence of credentials, or credentials
// that fail verification, resolve to Anonymous rather than an error.
type Gate interface {
	Resolve(r *http.Request) Identity
}

// NewGate builds the gate selected by cfg.Mode
func NewGate(cfg config.AuthConfig, log zerolog.Logger) (Gate, error) {
	switch cfg.Mode {
	case config.AuthModeJWT:
		return NewJWTGate([]byte(cfg.JWTSecret), cfg.JWTIssuer, log), nil
	case config.AuthModeHeader:
		return HeaderGate{}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// HeaderGate trusts identity headers injected by a gateway in front of the service
type HeaderGate struct{}

// Resolve implements Gate
func (HeaderGate) Resolve(r *http.Request) Identity {
	userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if userID == "" {
		return Anonymous
	}
	return Identity{
		UserID: userID,
		Name:   strings.TrimSpace(r.Header.Get(UserNameHeader)),
		Email:  strings.TrimSpace(r.Header.Get(UserEmailHeader)),
	}
}

// Claims are the token claims understood by JWTGate
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTGate verifies HS256 bearer tokens; the subject claim is the user id
type JWTGate struct {
	secret []byte
	parser *jwt.Parser
	log    zerolog.Logger
}

// NewJWTGate creates a JWTGate. An empty issuer disables the issuer check.
func NewJWTGate(secret []byte, issuer string, log zerolog.Logger) *JWTGate {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &JWTGate{
		secret: secret,
		parser: jwt.NewParser(opts...),
		log:    log.With().Str("component", "identity").Logger(),
	}
}

// Resolve implements Gate
func (g *JWTGate) Resolve(r *http.Request) Identity {
	raw := bearerToken(r)
	if raw == "" {
		return Anonymous
	}

	claims, err := g.Verify(raw)
	if err != nil {
		g.log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
		return Anonymous
	}

	return Identity{UserID: claims.Subject, Name: claims.Name, Email: claims.Email}
}

// ErrMissingSubject is returned for a valid token without a subject
var ErrMissingSubject = errors.New("token has no subject")

// Verify parses and validates a signed token
func (g *JWTGate) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := g.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return g.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// Sign issues a token for the claims; used by tooling and tests
func Sign(secret []byte, claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
