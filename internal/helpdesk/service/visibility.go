package service

import "github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"

// VisibleTo returns r as caller may see it. Coordinators and the volunteer
// holding the request see the phone number; everyone else gets it removed.
func VisibleTo(caller domain.Caller, r domain.HelpRequest) domain.HelpRequest {
	if caller.IsCoordinator() {
		return r
	}
	if !caller.IsAnonymous() && r.IsAcceptedBy(caller.Email) {
		return r
	}
	return r.WithoutPhone()
}

// VisibleListTo applies VisibleTo to every record.
func VisibleListTo(caller domain.Caller, rs []domain.HelpRequest) []domain.HelpRequest {
	out := make([]domain.HelpRequest, len(rs))
	for i, r := range rs {
		out[i] = VisibleTo(caller, r)
	}
	return out
}

// FilterFor turns a list view into a store filter. ViewMine needs a signed-in
// caller.
func FilterFor(caller domain.Caller, view domain.RequestView) (domain.RequestFilter, error) {
	switch view {
	case domain.ViewAll, "":
		return domain.RequestFilter{}, nil
	case domain.ViewAvailable:
		return domain.RequestFilter{OnlyOpen: true}, nil
	case domain.ViewMine:
		if caller.IsAnonymous() {
			return domain.RequestFilter{}, ErrUnauthenticated
		}
		return domain.RequestFilter{AcceptedBy: caller.Email}, nil
	}
	return domain.RequestFilter{}, &ValidationError{Fields: map[string]string{"view": "must be all, available or mine"}}
}
