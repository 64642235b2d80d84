// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/danielhkuo/campaign-vote/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInvalidRole  = errors.New("invalid role")
)

const issuer = "campaign-vote"

// Identity is the verified caller of a request.
type Identity struct {
	VoterID string
	Role    string
}

// IsAdmin reports whether the caller may manage campaigns.
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type Claims struct {
	VoterID string `json:"voter_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// VoterKey builds the opaque voter id from a government identifier and a
// membership number. Both parts are trimmed.
func VoterKey(governmentID, membershipNumber string) string {
	return strings.TrimSpace(governmentID) + "|" + strings.TrimSpace(membershipNumber)
}

// SignToken issues an HS256 token for voterID with the given role.
// ttl <= 0 means 24h.
func SignToken(secret, voterID, role string, ttl time.Duration) (string, error) {
	if role != models.RoleAdmin && role != models.RoleVoter {
		return "", ErrInvalidRole
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	now := time.Now()
	claims := Claims{
		VoterID: voterID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   voterID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies tokenStr and returns the caller identity.
func ParseToken(secret, tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.VoterID == "" {
		return Identity{}, ErrInvalidToken
	}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleVoter {
		return Identity{}, ErrInvalidRole
	}

	return Identity{VoterID: claims.VoterID, Role: claims.Role}, nil
}
