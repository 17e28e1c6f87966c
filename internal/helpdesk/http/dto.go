package http

import (
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/pkg/helpdesksdk"
)

func helpRequestDTO(r domain.HelpRequest) helpdesksdk.HelpRequest {
	return helpdesksdk.HelpRequest{
		ID:            r.ID,
		RequesterName: r.RequesterName,
		Kind:          string(r.Kind),
		Message:       r.Message,
		Date:          r.Date,
		TimeSlot:      r.TimeSlot,
		Region:        r.Region,
		Street:        r.Address.Street,
		HouseNumber:   r.Address.HouseNumber,
		PostalCode:    r.Address.PostalCode,
		City:          r.Address.City,
		Phone:         r.Phone,
		Accepted:      r.Accepted,
		AcceptedBy:    r.AcceptedBy,
		AcceptedAt:    r.AcceptedAt,
		CreatedAt:     r.CreatedAt,
	}
}

func helpRequestDTOs(rs []domain.HelpRequest) []helpdesksdk.HelpRequest {
	out := make([]helpdesksdk.HelpRequest, len(rs))
	for i, r := range rs {
		out[i] = helpRequestDTO(r)
	}
	return out
}

func newHelpRequest(in helpdesksdk.CreateHelpRequest) domain.NewHelpRequest {
	return domain.NewHelpRequest{
		RequesterName: in.RequesterName,
		Kind:          domain.RequestKind(in.Kind),
		Message:       in.Message,
		Date:          in.Date,
		TimeSlot:      in.TimeSlot,
		Region:        in.Region,
		Address: domain.Address{
			Street:      in.Street,
			HouseNumber: in.HouseNumber,
			PostalCode:  in.PostalCode,
			City:        in.City,
		},
		Phone: in.Phone,
	}
}

func userDTOs(us []domain.User) []helpdesksdk.User {
	out := make([]helpdesksdk.User, len(us))
	for i, u := range us {
		out[i] = helpdesksdk.User{
			ID:        u.ID,
			Email:     u.Email,
			Role:      string(u.Role),
			Accepted:  u.Accepted,
			CreatedAt: u.CreatedAt,
		}
	}
	return out
}

func contactDTO(c domain.Contact) helpdesksdk.Contact {
	return helpdesksdk.Contact{
		ID:        c.ID,
		Email:     c.Email,
		Subject:   c.Subject,
		Message:   c.Message,
		CreatedAt: c.CreatedAt,
	}
}

func volunteerDTO(v domain.Volunteer) helpdesksdk.Volunteer {
	return helpdesksdk.Volunteer{
		ID:         v.ID,
		FirstName:  v.FirstName,
		LastName:   v.LastName,
		Address:    v.Address,
		Phone:      v.Phone,
		Email:      v.Email,
		Motivation: v.Motivation,
		CreatedAt:  v.CreatedAt,
	}
}
