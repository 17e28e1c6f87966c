package domain

// Caller is who is making a request, derived from a verified session token.
// The zero value is an anonymous caller.
type Caller struct {
	UserID string
	Email  string
	Role   Role
}

func (c Caller) IsAnonymous() bool   { return c.Email == "" }
func (c Caller) IsCoordinator() bool { return c.Role == RoleCoordinator }
