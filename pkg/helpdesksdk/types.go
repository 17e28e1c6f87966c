package helpdesksdk

import "time"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// CredentialsRequest is used by register, both logins and bootstrap.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	UserID    string `json:"userId,omitempty"`
	ExpiresIn int    `json:"expiresIn"`
}

type BootstrapResponse struct {
	UserID string `json:"userId"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Accepted  bool      `json:"accepted"`
	CreatedAt time.Time `json:"createdAt"`
}

type ApproveVolunteerRequest struct {
	UserID string `json:"userId"`
}

type PromoteRequest struct {
	Email string `json:"email"`
}

// Help request kinds.
const (
	KindGroceries = "groceries"
	KindTransport = "transport"
	KindCompany   = "company"
	KindChores    = "chores"
	KindOther     = "other"
)

// List views.
const (
	ViewAll       = "all"
	ViewAvailable = "available"
	ViewMine      = "mine"
)

type CreateHelpRequest struct {
	RequesterName string `json:"requesterName"`
	Kind          string `json:"kind"`
	Message       string `json:"message,omitempty"`
	Date          string `json:"date"`
	TimeSlot      string `json:"timeSlot,omitempty"`
	Region        string `json:"region,omitempty"`
	Street        string `json:"street"`
	HouseNumber   string `json:"houseNumber,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	City          string `json:"city"`
	Phone         string `json:"phone"`
}

// HelpRequest as returned by the API. Phone is empty unless the caller is a
// coordinator or the volunteer who accepted the request.
type HelpRequest struct {
	ID            string     `json:"id"`
	RequesterName string     `json:"requesterName"`
	Kind          string     `json:"kind"`
	Message       string     `json:"message"`
	Date          string     `json:"date"`
	TimeSlot      string     `json:"timeSlot"`
	Region        string     `json:"region"`
	Street        string     `json:"street"`
	HouseNumber   string     `json:"houseNumber"`
	PostalCode    string     `json:"postalCode"`
	City          string     `json:"city"`
	Phone         string     `json:"phone,omitempty"`
	Accepted      bool       `json:"accepted"`
	AcceptedBy    string     `json:"acceptedBy,omitempty"`
	AcceptedAt    *time.Time `json:"acceptedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// TransitionRequest is the optional body of accept and cancel. When Email is
// set it must be the caller's own.
type TransitionRequest struct {
	Email string `json:"email,omitempty"`
}

type CreateContactRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

type Contact struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateVolunteerRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	Motivation string `json:"motivation,omitempty"`
}

type Volunteer struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Motivation string    `json:"motivation"`
	CreatedAt  time.Time `json:"createdAt"`
}

type PushTokenRequest struct {
	ExpoPushToken string `json:"expoPushToken"`
}
