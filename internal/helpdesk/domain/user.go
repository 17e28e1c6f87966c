package domain

import "time"

type Role string

const (
	RoleVolunteer   Role = "volunteer"
	RoleCoordinator Role = "coordinator"
)

func (r Role) Valid() bool { return r == RoleVolunteer || r == RoleCoordinator }

// User is a login account. Volunteers register themselves and wait for a
// coordinator to accept them; coordinators are always accepted.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Accepted     bool
	PushToken    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}
