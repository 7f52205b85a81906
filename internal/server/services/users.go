// Package services contains server-side business logic on top of the ledger
// and credential stores.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avolkova/ecommute/internal/common"
	"github.com/avolkova/ecommute/internal/server/auth"
	"github.com/avolkova/ecommute/internal/server/config"
	"github.com/avolkova/ecommute/internal/server/creds"
)

// UserService handles registration, login, account deletion, and password
// changes. Privileged mutations re-verify credentials before acting.
type UserService struct {
	creds                 *creds.Store
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewUserService(c *creds.Store, cfg *config.Config) *UserService {
	return &UserService{
		creds:                 c,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new user. A taken username yields ErrorAlreadyExists.
// The Exists check and the Create are not atomic; see the creds package note
// on the inherited duplicate-username race.
func (s *UserService) Register(ctx context.Context, username, password string) error {
	taken, err := s.creds.Exists(ctx, username)
	if err != nil {
		return fmt.Errorf("checking user: %w", err)
	}
	if taken {
		return common.ErrorAlreadyExists
	}
	return s.creds.Create(ctx, username, password)
}

// Login verifies credentials and mints an access token on success. A
// credential mismatch (including an unknown username) yields
// ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.creds.Verify(ctx, username, password)
	if err != nil {
		return "", fmt.Errorf("verifying credentials: %w", err)
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(username, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Delete removes the account after re-verifying the password.
func (s *UserService) Delete(ctx context.Context, username, password string) error {
	ok, err := s.creds.Verify(ctx, username, password)
	if err != nil {
		return fmt.Errorf("verifying credentials: %w", err)
	}
	if !ok {
		return common.ErrorUnauthorized
	}
	return s.creds.Remove(ctx, username)
}

// ChangePassword replaces the password after re-verifying the old one.
func (s *UserService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	ok, err := s.creds.Verify(ctx, username, oldPassword)
	if err != nil {
		return fmt.Errorf("verifying credentials: %w", err)
	}
	if !ok {
		return common.ErrorUnauthorized
	}
	return s.creds.ChangePassword(ctx, username, newPassword)
}
