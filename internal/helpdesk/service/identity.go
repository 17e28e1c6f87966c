package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
	"github.com/burenvoorburen/helpdesk/pkg/cryptox"
	"github.com/burenvoorburen/helpdesk/pkg/idx"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
)

// IdentityService manages accounts: self registration of volunteers, approval
// and promotion by coordinators.
type IdentityService struct {
	Store store.Store
}

// Register creates a volunteer account awaiting approval.
func (s *IdentityService) Register(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email = normalizeEmail(email)
	var v validator
	v.require("email", email)
	v.require("password", password)
	if err := v.err(); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleVolunteer,
		Accepted:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.Users().CreateUser(ctx, u)
	if errors.Is(err, store.ErrAlreadyExists) {
		l.Info("registration for existing email rejected")
		return domain.User{}, ErrConflict
	}
	if err != nil {
		l.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	l.Info("volunteer registered", slog.String("user_id", u.ID))
	return u, nil
}

func (s *IdentityService) ListPendingVolunteers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListPendingVolunteers(ctx)
}

// ApproveVolunteer lets a registered volunteer log in.
func (s *IdentityService) ApproveVolunteer(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &ValidationError{Fields: map[string]string{"userId": "is required"}}
	}

	err := s.Store.Users().ApproveVolunteer(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("volunteer approved", slog.String("user_id", userID))
	return nil
}

// PromoteToCoordinator turns the volunteer with email into a coordinator.
func (s *IdentityService) PromoteToCoordinator(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return &ValidationError{Fields: map[string]string{"email": "is required"}}
	}

	users := s.Store.Users()
	err := users.PromoteToCoordinator(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		// Nothing matched; tell a missing user apart from one who is
		// already a coordinator.
		u, lookupErr := users.GetUserByEmail(ctx, email)
		switch {
		case errors.Is(lookupErr, store.ErrNotFound):
			return ErrNotFound
		case lookupErr != nil:
			return lookupErr
		case u.Role == domain.RoleCoordinator:
			return ErrConflict
		}
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("user promoted to coordinator", slog.String("email", email))
	return nil
}

// DeletePendingVolunteer rejects a registration that was never approved.
func (s *IdentityService) DeletePendingVolunteer(ctx context.Context, userID string) error {
	err := s.Store.Users().DeletePendingVolunteer(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("pending volunteer removed", slog.String("user_id", userID))
	return nil
}

// DeleteUser removes any account. Coordinators cannot delete themselves.
func (s *IdentityService) DeleteUser(ctx context.Context, caller domain.Caller, userID string) error {
	if !caller.IsCoordinator() {
		return ErrForbidden
	}
	if caller.UserID == userID {
		return ErrForbidden
	}

	err := s.Store.Users().DeleteUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("user deleted", slog.String("user_id", userID), slog.String("by", caller.Email))
	return nil
}

// RegisterPushToken stores the caller's Expo push token. An empty token turns
// notifications off.
func (s *IdentityService) RegisterPushToken(ctx context.Context, caller domain.Caller, token string) error {
	if caller.IsAnonymous() {
		return ErrUnauthenticated
	}

	err := s.Store.Users().UpdatePushToken(ctx, caller.UserID, strings.TrimSpace(token))
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
