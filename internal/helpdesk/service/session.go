package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/metrics"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
	"github.com/burenvoorburen/helpdesk/pkg/cryptox"
	"github.com/burenvoorburen/helpdesk/pkg/jwtx"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
)

// SessionService logs users in and issues signed session tokens.
type SessionService struct {
	Store  store.Store
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
}

// Login checks the credentials of an accepted user with the expected role.
// Unknown users, wrong roles, pending volunteers and wrong passwords are all
// reported as ErrInvalidCredentials.
func (s *SessionService) Login(ctx context.Context, email, password string, role domain.Role) (domain.Session, error) {
	l := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	var v validator
	v.require("email", email)
	v.require("password", password)
	if err := v.err(); err != nil {
		return domain.Session{}, err
	}

	u, err := s.Store.Users().GetLoginUser(ctx, email, role)
	if errors.Is(err, store.ErrNotFound) {
		metrics.RecordLogin(string(role), false)
		l.Info("login rejected", slog.String("role", string(role)))
		return domain.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.Session{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		metrics.RecordLogin(string(role), false)
		l.Info("login rejected", slog.String("user_id", u.ID), slog.String("role", string(role)))
		return domain.Session{}, ErrInvalidCredentials
	}

	if cryptox.NeedsRehash(u.PasswordHash) {
		s.rehash(ctx, u.ID, password)
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims(u.ID, u.Email, string(u.Role), ttl, s.Issuer, now)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign session", slog.Any("error", err))
		return domain.Session{}, err
	}

	metrics.RecordLogin(string(role), true)
	l.Info("user logged in", slog.String("user_id", u.ID), slog.String("role", string(u.Role)))
	return domain.Session{Token: token, ExpiresAt: now.Add(ttl), User: u}, nil
}

// rehash upgrades a legacy or outdated hash. Failures only cost another
// rehash on the next login.
func (s *SessionService) rehash(ctx context.Context, userID, password string) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Warn("failed to rehash password", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
		l.Warn("failed to store rehashed password", slog.String("user_id", userID), slog.Any("error", err))
		return
	}
	l.Info("password hash upgraded", slog.String("user_id", userID))
}

// ResolveSession re-reads the session's user so deleted, unapproved or
// re-roled accounts act with their current state. The returned claims carry
// the stored email and role.
func (s *SessionService) ResolveSession(ctx context.Context, c jwtx.Claims) (jwtx.Claims, error) {
	u, err := s.Store.Users().GetUserByID(ctx, c.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return c, fmt.Errorf("%w: user %s no longer exists", jwtx.ErrSessionRevoked, c.Subject)
	}
	if err != nil {
		return c, err
	}
	if !u.Accepted {
		return c, fmt.Errorf("%w: user %s is not approved", jwtx.ErrSessionRevoked, c.Subject)
	}

	c.Email = u.Email
	c.Role = string(u.Role)
	return c, nil
}

// CallerFromClaims builds the caller identity from verified session claims.
func CallerFromClaims(c jwtx.Claims) domain.Caller {
	return domain.Caller{
		UserID: c.Subject,
		Email:  c.Email,
		Role:   domain.Role(c.Role),
	}
}
