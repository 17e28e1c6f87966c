package store

import (
	"context"
	"errors"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
)

var (
	// ErrNotFound is returned when no row matched, including conditional
	// updates whose predicate did not hold.
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by the sqlite and
// postgres drivers. Sub-repositories keep each table's queries together.
type Store interface {
	HelpRequests() HelpRequests
	Users() Users
	Contacts() Contacts
	Volunteers() Volunteers

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction scoped Store. Nested transactions are not supported.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// HelpRequests holds help requests. Every state change is a single
// conditional statement so concurrent callers cannot both win.
type HelpRequests interface {
	CreateHelpRequest(ctx context.Context, r domain.HelpRequest) error
	GetHelpRequest(ctx context.Context, id string) (domain.HelpRequest, error)

	// ListHelpRequests returns matching requests, oldest first.
	ListHelpRequests(ctx context.Context, f domain.RequestFilter) ([]domain.HelpRequest, error)

	// AcceptHelpRequest marks an open request as taken by email.
	// ErrNotFound when the request is missing or already accepted.
	AcceptHelpRequest(ctx context.Context, id, email string, at time.Time) error

	// ReleaseHelpRequest reopens an accepted request whoever holds it.
	// ErrNotFound when the request is missing or not accepted.
	ReleaseHelpRequest(ctx context.Context, id string, at time.Time) error

	// ReleaseHelpRequestHeldBy reopens a request only if email holds it.
	// ErrNotFound otherwise.
	ReleaseHelpRequestHeldBy(ctx context.Context, id, email string, at time.Time) error

	DeleteHelpRequest(ctx context.Context, id string) error

	// NewestHelpRequestID returns the id of the most recently created request.
	// ErrNotFound when there are none.
	NewestHelpRequestID(ctx context.Context) (string, error)
}

type Users interface {
	// CreateUser inserts a user. ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetLoginUser returns the accepted user with this email and role.
	GetLoginUser(ctx context.Context, email string, role domain.Role) (domain.User, error)

	ListPendingVolunteers(ctx context.Context) ([]domain.User, error)

	// ApproveVolunteer sets accepted on a volunteer. ErrNotFound when the id
	// does not name a volunteer. Approving twice is not an error.
	ApproveVolunteer(ctx context.Context, id string) error

	// PromoteToCoordinator turns a volunteer into an accepted coordinator.
	// ErrNotFound when no volunteer has this email.
	PromoteToCoordinator(ctx context.Context, email string) error

	UpdatePasswordHash(ctx context.Context, id, hash string) error
	UpdatePushToken(ctx context.Context, id, token string) error

	// ListPushTokens returns the push tokens of accepted volunteers.
	ListPushTokens(ctx context.Context) ([]string, error)

	// DeletePendingVolunteer removes a volunteer that was never accepted.
	DeletePendingVolunteer(ctx context.Context, id string) error
	DeleteUser(ctx context.Context, id string) error

	CountCoordinators(ctx context.Context) (int, error)
}

type Contacts interface {
	CreateContact(ctx context.Context, c domain.Contact) error
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

type Volunteers interface {
	CreateVolunteer(ctx context.Context, v domain.Volunteer) error
	ListVolunteers(ctx context.Context) ([]domain.Volunteer, error)
	DeleteVolunteer(ctx context.Context, id string) error
}
