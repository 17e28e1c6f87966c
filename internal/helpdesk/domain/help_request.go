package domain

import "time"

// RequestKind is the closed set of help categories residents can pick from.
type RequestKind string

const (
	KindGroceries RequestKind = "groceries"
	KindTransport RequestKind = "transport"
	KindCompany   RequestKind = "company"
	KindChores    RequestKind = "chores"
	KindOther     RequestKind = "other"
)

// RequestKinds lists every valid kind in display order.
var RequestKinds = []RequestKind{KindGroceries, KindTransport, KindCompany, KindChores, KindOther}

func (k RequestKind) Valid() bool {
	for _, v := range RequestKinds {
		if k == v {
			return true
		}
	}
	return false
}

type Address struct {
	Street      string
	HouseNumber string
	PostalCode  string
	City        string
}

// HelpRequest is a resident's request for help.
//
// Accepted and AcceptedBy always move together: Accepted is true exactly when
// AcceptedBy holds the email of the one volunteer who took the request.
type HelpRequest struct {
	ID            string
	RequesterName string
	Kind          RequestKind
	Message       string
	Date          string // requested day, as entered (YYYY-MM-DD)
	TimeSlot      string
	Region        string
	Address       Address
	Phone         string

	Accepted   bool
	AcceptedBy string
	AcceptedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports whether the request is still waiting for a volunteer.
func (r HelpRequest) IsOpen() bool { return !r.Accepted }

// IsAcceptedBy reports whether email is the volunteer holding the request.
func (r HelpRequest) IsAcceptedBy(email string) bool {
	return r.Accepted && email != "" && r.AcceptedBy == email
}

// WithoutPhone returns a copy with the phone number removed.
func (r HelpRequest) WithoutPhone() HelpRequest {
	r.Phone = ""
	return r
}

// NewHelpRequest holds what a resident submits.
type NewHelpRequest struct {
	RequesterName string
	Kind          RequestKind
	Message       string
	Date          string
	TimeSlot      string
	Region        string
	Address       Address
	Phone         string
}

// RequestView selects which help requests a list call returns.
type RequestView string

const (
	ViewAll       RequestView = "all"
	ViewAvailable RequestView = "available"
	ViewMine      RequestView = "mine"
)

// ParseRequestView maps a query value to a view. Empty means ViewAll.
func ParseRequestView(s string) (RequestView, bool) {
	switch RequestView(s) {
	case "", ViewAll:
		return ViewAll, true
	case ViewAvailable:
		return ViewAvailable, true
	case ViewMine:
		return ViewMine, true
	}
	return "", false
}

// RequestFilter is the store level selection for listing help requests.
// The zero value selects everything.
type RequestFilter struct {
	OnlyOpen   bool
	AcceptedBy string
}
