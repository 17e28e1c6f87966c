package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
	"github.com/burenvoorburen/helpdesk/pkg/idx"
)

// DirectoryService stores what the public website forms send in: contact
// messages and volunteer sign-ups.
type DirectoryService struct {
	Store store.Store
}

func (s *DirectoryService) CreateContact(ctx context.Context, c domain.Contact) (domain.Contact, error) {
	c.Email = normalizeEmail(c.Email)
	c.Subject = strings.TrimSpace(c.Subject)
	c.Message = strings.TrimSpace(c.Message)

	var v validator
	v.require("email", c.Email)
	v.require("message", c.Message)
	if err := v.err(); err != nil {
		return domain.Contact{}, err
	}

	c.CreatedAt = time.Now().UTC()
	c.ID = idx.NewAt(c.CreatedAt).String()
	if err := s.Store.Contacts().CreateContact(ctx, c); err != nil {
		return domain.Contact{}, err
	}
	return c, nil
}

func (s *DirectoryService) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	return s.Store.Contacts().ListContacts(ctx)
}

func (s *DirectoryService) DeleteContact(ctx context.Context, id string) error {
	return notFound(s.Store.Contacts().DeleteContact(ctx, id))
}

func (s *DirectoryService) CreateVolunteer(ctx context.Context, v domain.Volunteer) (domain.Volunteer, error) {
	v.FirstName = strings.TrimSpace(v.FirstName)
	v.LastName = strings.TrimSpace(v.LastName)
	v.Address = strings.TrimSpace(v.Address)
	v.Phone = strings.TrimSpace(v.Phone)
	v.Email = normalizeEmail(v.Email)
	v.Motivation = strings.TrimSpace(v.Motivation)

	var val validator
	val.require("firstName", v.FirstName)
	val.require("lastName", v.LastName)
	if v.Email == "" && v.Phone == "" {
		val.fail("email", "email or phone is required")
	}
	if err := val.err(); err != nil {
		return domain.Volunteer{}, err
	}

	v.CreatedAt = time.Now().UTC()
	v.ID = idx.NewAt(v.CreatedAt).String()
	if err := s.Store.Volunteers().CreateVolunteer(ctx, v); err != nil {
		return domain.Volunteer{}, err
	}
	return v, nil
}

func (s *DirectoryService) ListVolunteers(ctx context.Context) ([]domain.Volunteer, error) {
	return s.Store.Volunteers().ListVolunteers(ctx)
}

func (s *DirectoryService) DeleteVolunteer(ctx context.Context, id string) error {
	return notFound(s.Store.Volunteers().DeleteVolunteer(ctx, id))
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
