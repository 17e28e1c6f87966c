package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/metrics"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
	"github.com/burenvoorburen/helpdesk/pkg/idx"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
)

// RequestService drives the help request lifecycle. Every state change is one
// conditional store write, so two volunteers racing for the same request
// cannot both win.
type RequestService struct {
	Store store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *RequestService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func validateNewRequest(in domain.NewHelpRequest) error {
	var v validator
	v.require("requesterName", in.RequesterName)
	if strings.TrimSpace(string(in.Kind)) == "" {
		v.fail("kind", "is required")
	} else if !in.Kind.Valid() {
		v.fail("kind", "must be one of groceries, transport, company, chores, other")
	}
	v.require("date", in.Date)
	v.require("phone", in.Phone)
	v.require("street", in.Address.Street)
	v.require("city", in.Address.City)
	return v.err()
}

// Create stores a new open request.
func (s *RequestService) Create(ctx context.Context, in domain.NewHelpRequest) (domain.HelpRequest, error) {
	l := slogx.FromContext(ctx)

	if err := validateNewRequest(in); err != nil {
		metrics.RecordTransition("create", metrics.OutcomeRejected)
		return domain.HelpRequest{}, err
	}

	now := s.now()
	hr := domain.HelpRequest{
		ID:            idx.NewAt(now).String(),
		RequesterName: strings.TrimSpace(in.RequesterName),
		Kind:          in.Kind,
		Message:       strings.TrimSpace(in.Message),
		Date:          strings.TrimSpace(in.Date),
		TimeSlot:      strings.TrimSpace(in.TimeSlot),
		Region:        strings.TrimSpace(in.Region),
		Address: domain.Address{
			Street:      strings.TrimSpace(in.Address.Street),
			HouseNumber: strings.TrimSpace(in.Address.HouseNumber),
			PostalCode:  strings.TrimSpace(in.Address.PostalCode),
			City:        strings.TrimSpace(in.Address.City),
		},
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Store.HelpRequests().CreateHelpRequest(ctx, hr); err != nil {
		metrics.RecordTransition("create", metrics.OutcomeError)
		l.Error("failed to create help request", slog.Any("error", err))
		return domain.HelpRequest{}, err
	}

	metrics.RecordTransition("create", metrics.OutcomeOK)
	l.Info("help request created",
		slog.String("request_id", hr.ID),
		slog.String("kind", string(hr.Kind)),
	)
	return hr, nil
}

// Accept assigns an open request to the caller. Any approved session may
// accept, coordinators included.
func (s *RequestService) Accept(ctx context.Context, caller domain.Caller, id string) error {
	l := slogx.FromContext(ctx)

	if caller.IsAnonymous() {
		return ErrUnauthenticated
	}

	err := s.Store.HelpRequests().AcceptHelpRequest(ctx, id, caller.Email, s.now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		metrics.RecordTransition("accept", metrics.OutcomeRejected)
		l.Info("help request not available", slog.String("request_id", id))
		return ErrAlreadyAccepted
	case err != nil:
		metrics.RecordTransition("accept", metrics.OutcomeError)
		l.Error("failed to accept help request", slog.String("request_id", id), slog.Any("error", err))
		return err
	}

	metrics.RecordTransition("accept", metrics.OutcomeOK)
	l.Info("help request accepted",
		slog.String("request_id", id),
		slog.String("volunteer", caller.Email),
	)
	return nil
}

// Cancel returns an accepted request to open. Coordinators may cancel any
// accepted request, everyone else only their own.
func (s *RequestService) Cancel(ctx context.Context, caller domain.Caller, id string) error {
	l := slogx.FromContext(ctx)

	if caller.IsAnonymous() {
		return ErrUnauthenticated
	}

	repo := s.Store.HelpRequests()
	var err error
	if caller.IsCoordinator() {
		err = repo.ReleaseHelpRequest(ctx, id, s.now())
	} else {
		err = repo.ReleaseHelpRequestHeldBy(ctx, id, caller.Email, s.now())
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		metrics.RecordTransition("cancel", metrics.OutcomeRejected)
		return ErrNotFoundOrNotOwned
	case err != nil:
		metrics.RecordTransition("cancel", metrics.OutcomeError)
		l.Error("failed to cancel help request", slog.String("request_id", id), slog.Any("error", err))
		return err
	}

	metrics.RecordTransition("cancel", metrics.OutcomeOK)
	l.Info("help request cancelled",
		slog.String("request_id", id),
		slog.String("by", caller.Email),
		slog.String("role", string(caller.Role)),
	)
	return nil
}

// Delete removes a request in any state. Coordinators only.
func (s *RequestService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	l := slogx.FromContext(ctx)

	if !caller.IsCoordinator() {
		metrics.RecordTransition("delete", metrics.OutcomeRejected)
		return ErrForbidden
	}

	err := s.Store.HelpRequests().DeleteHelpRequest(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		metrics.RecordTransition("delete", metrics.OutcomeRejected)
		return ErrNotFound
	case err != nil:
		metrics.RecordTransition("delete", metrics.OutcomeError)
		l.Error("failed to delete help request", slog.String("request_id", id), slog.Any("error", err))
		return err
	}

	metrics.RecordTransition("delete", metrics.OutcomeOK)
	l.Info("help request deleted", slog.String("request_id", id), slog.String("by", caller.Email))
	return nil
}

// List returns the requests selected by view, redacted for caller.
func (s *RequestService) List(ctx context.Context, caller domain.Caller, view domain.RequestView) ([]domain.HelpRequest, error) {
	filter, err := FilterFor(caller, view)
	if err != nil {
		return nil, err
	}

	rs, err := s.Store.HelpRequests().ListHelpRequests(ctx, filter)
	if err != nil {
		return nil, err
	}
	return VisibleListTo(caller, rs), nil
}

// Get returns one request, redacted for caller.
func (s *RequestService) Get(ctx context.Context, caller domain.Caller, id string) (domain.HelpRequest, error) {
	hr, err := s.Store.HelpRequests().GetHelpRequest(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.HelpRequest{}, ErrNotFound
	}
	if err != nil {
		return domain.HelpRequest{}, err
	}
	return VisibleTo(caller, hr), nil
}
