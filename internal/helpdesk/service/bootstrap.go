package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
	"github.com/burenvoorburen/helpdesk/pkg/cryptox"
	"github.com/burenvoorburen/helpdesk/pkg/idx"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapDisabled     = errors.New("bootstrap disabled")
)

// BootstrapService creates the first coordinator. Without one, nobody could
// approve volunteers.
type BootstrapService struct {
	Store store.Store
	Token string // pre-configured bootstrap token, empty disables bootstrap
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	n, err := s.Store.Users().CountCoordinators(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Bootstrap creates an accepted coordinator when token matches and no
// coordinator exists yet.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, email, password string) (string, error) {
	l := slogx.FromContext(ctx)

	if s.Token == "" {
		return "", ErrBootstrapDisabled
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.Token)) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return "", ErrBootstrapUnauthorized
	}

	email = normalizeEmail(email)
	var v validator
	v.require("email", email)
	v.require("password", password)
	if err := v.err(); err != nil {
		return "", err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash coordinator password", slog.Any("error", err))
		return "", err
	}

	now := time.Now().UTC()
	userID := idx.NewAt(now).String()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		n, err := tx.Users().CountCoordinators(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrBootstrapAlready
		}

		err = tx.Users().CreateUser(ctx, domain.User{
			ID:           userID,
			Email:        email,
			PasswordHash: hash,
			Role:         domain.RoleCoordinator,
			Accepted:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrConflict
		}
		return err
	})
	if errors.Is(err, ErrBootstrapAlready) {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return "", err
	}
	if err != nil {
		return "", err
	}

	l.Info("successfully bootstrapped system", slog.String("coordinator_id", userID))
	return userID, nil
}
