// Package auth holds the pieces of the GitHub login flow that do not talk to the
// GitHub REST API: the OAuth provider, the signed OAuth state, Bearer token
// extraction, and sealing of handoff payloads.
//
// STATE PARAMETER:
// The redirector attaches a state value to the authorize URL. It is a compact
// HS256 JWT:
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Payload: {"sub":"<xid nonce>","iss":"repo-memory","exp":...}
//
// The callback can verify it without any server-side storage, keeping the
// backend stateless per request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	stateIssuer = "repo-memory"

	// StateTTL bounds how long a user may sit on GitHub's consent page.
	StateTTL = 10 * time.Minute
)

// StateSigner issues and validates OAuth state values.
type StateSigner struct {
	secret []byte
}

// NewStateSigner creates a StateSigner with the given HMAC secret.
func NewStateSigner(secret string) (*StateSigner, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: state secret must be at least 16 characters")
	}
	return &StateSigner{secret: []byte(secret)}, nil
}

type stateClaims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed state valid for StateTTL.
func (s *StateSigner) Issue() (string, error) {
	return s.IssueWithDuration(StateTTL)
}

// IssueWithDuration creates a state with a custom lifetime. Used in tests.
func (s *StateSigner) IssueWithDuration(d time.Duration) (string, error) {
	now := time.Now()

	c := stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    stateIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing state: %w", err)
	}
	return signed, nil
}

// Validate checks the signature, issuer and expiry of a state value.
func (s *StateSigner) Validate(state string) error {
	token, err := jwt.ParseWithClaims(
		state,
		&stateClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("auth: state expired")
		}
		return fmt.Errorf("auth: invalid state: %w", err)
	}

	c, ok := token.Claims.(*stateClaims)
	if !ok || !token.Valid || c.Subject == "" {
		return fmt.Errorf("auth: invalid state claims")
	}
	return nil
}
