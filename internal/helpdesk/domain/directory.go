package domain

import "time"

// Contact is a message sent through the public contact form.
type Contact struct {
	ID        string
	Email     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

// Volunteer is a sign-up sent through the public volunteer form. It is not a
// login account; coordinators follow up and ask the person to register.
type Volunteer struct {
	ID         string
	FirstName  string
	LastName   string
	Address    string
	Phone      string
	Email      string
	Motivation string
	CreatedAt  time.Time
}
