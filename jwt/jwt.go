// Package jwt reads bearer token claims for display. Signatures are not
// verified; the backend remains the only authority on what a token grants.
package jwt

import (
	"fmt"
	"strings"

	"github.com/fwojciec/rag"
	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"is_admin"`
}

// Peek decodes the claims carried by token without verifying its signature.
func Peek(token string) (rag.Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return rag.Claims{}, fmt.Errorf("jwt: empty token: %w", rag.ErrValidation)
	}
	var c claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return rag.Claims{}, fmt.Errorf("jwt: %w: %w", rag.ErrValidation, err)
	}
	out := rag.Claims{Subject: c.Subject, IsAdmin: c.IsAdmin, JTI: c.ID}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.UTC()
	}
	return out, nil
}
