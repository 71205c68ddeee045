// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth implements API key credentials for admin writes. A key has
// the form "<userID>.<secret>"; only a bcrypt hash of the secret is stored.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"devmastery/internal/models"
)

// secretLength is the byte length of the random secret (32 bytes = 64 hex chars).
const secretLength = 32

// ErrMalformedKey is returned by ParseKey for tokens that are not "<uuid>.<secret>".
var ErrMalformedKey = errors.New("malformed api key")

// NewSecret generates a random secret and its bcrypt hash.
func NewSecret() (secret, hash string, err error) {
	b := make([]byte, secretLength)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate secret: %w", err)
	}
	secret = hex.EncodeToString(b)

	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash secret: %w", err)
	}
	return secret, string(h), nil
}

// FormatKey joins a user id and secret into the token clients send.
func FormatKey(userID uuid.UUID, secret string) string {
	return userID.String() + "." + secret
}

// ParseKey splits a token produced by FormatKey.
func ParseKey(key string) (uuid.UUID, string, error) {
	idPart, secret, ok := strings.Cut(key, ".")
	if !ok || secret == "" {
		return uuid.Nil, "", ErrMalformedKey
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", ErrMalformedKey
	}
	return id, secret, nil
}

// UserFinder looks up a user by id. Implementations return nil, nil when
// the user does not exist.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Resolver turns API keys into users.
type Resolver struct {
	users UserFinder
}

// NewResolver creates a Resolver backed by the given user lookup.
func NewResolver(users UserFinder) *Resolver {
	return &Resolver{users: users}
}

// Resolve returns the user owning key, or nil if the key is malformed,
// unknown or does not match the stored hash. Only lookup failures are errors.
func (r *Resolver) Resolve(ctx context.Context, key string) (*models.User, error) {
	id, secret, err := ParseKey(key)
	if err != nil {
		return nil, nil
	}

	user, err := r.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve api key: %w", err)
	}
	if user == nil || user.APIKeyHash == nil {
		return nil, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(*user.APIKeyHash), []byte(secret)) != nil {
		return nil, nil
	}
	return user, nil
}
