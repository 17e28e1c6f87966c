package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/stretchr/testify/require"
)

func TestCreateValidation(t *testing.T) {
	svc := &service.RequestService{Store: newStore(t)}
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*domain.NewHelpRequest)
		field  string
	}{
		{"missing name", func(r *domain.NewHelpRequest) { r.RequesterName = " " }, "requesterName"},
		{"missing kind", func(r *domain.NewHelpRequest) { r.Kind = "" }, "kind"},
		{"unknown kind", func(r *domain.NewHelpRequest) { r.Kind = "gardening" }, "kind"},
		{"missing date", func(r *domain.NewHelpRequest) { r.Date = "" }, "date"},
		{"missing phone", func(r *domain.NewHelpRequest) { r.Phone = "" }, "phone"},
		{"missing street", func(r *domain.NewHelpRequest) { r.Address.Street = "" }, "street"},
		{"missing city", func(r *domain.NewHelpRequest) { r.Address.City = "" }, "city"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRequest()
			tt.mutate(&in)

			_, err := svc.Create(ctx, in)
			require.ErrorIs(t, err, service.ErrValidation)

			var verr *service.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Contains(t, verr.Fields, tt.field)
		})
	}

	all, err := svc.List(ctx, coordinator, domain.ViewAll)
	require.NoError(t, err)
	require.Empty(t, all, "rejected requests are not stored")
}

func TestCreateStartsOpen(t *testing.T) {
	svc := &service.RequestService{Store: newStore(t), Now: fixedNow}

	hr, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotEmpty(t, hr.ID)
	require.False(t, hr.Accepted)
	require.Empty(t, hr.AcceptedBy)
	require.Equal(t, fixedNow(), hr.CreatedAt)
}

func TestAcceptAndCancel(t *testing.T) {
	ctx := context.Background()
	svc := &service.RequestService{Store: newStore(t)}

	hr, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.ErrorIs(t, svc.Accept(ctx, anonymous, hr.ID), service.ErrUnauthenticated)
	require.NoError(t, svc.Accept(ctx, vera, hr.ID))
	require.ErrorIs(t, svc.Accept(ctx, piet, hr.ID), service.ErrAlreadyAccepted)
	require.ErrorIs(t, svc.Accept(ctx, vera, "does-not-exist"), service.ErrAlreadyAccepted)

	got, err := svc.Get(ctx, coordinator, hr.ID)
	require.NoError(t, err)
	require.True(t, got.Accepted)
	require.Equal(t, vera.Email, got.AcceptedBy)

	require.ErrorIs(t, svc.Cancel(ctx, piet, hr.ID), service.ErrNotFoundOrNotOwned)
	require.NoError(t, svc.Cancel(ctx, vera, hr.ID))
	require.ErrorIs(t, svc.Cancel(ctx, vera, hr.ID), service.ErrNotFoundOrNotOwned)

	got, err = svc.Get(ctx, coordinator, hr.ID)
	require.NoError(t, err)
	require.False(t, got.Accepted)
	require.Empty(t, got.AcceptedBy)
	require.Nil(t, got.AcceptedAt)

	require.NoError(t, svc.Accept(ctx, piet, hr.ID), "cancelled requests can be accepted again")
	require.NoError(t, svc.Cancel(ctx, coordinator, hr.ID), "coordinators cancel any accepted request")
	require.ErrorIs(t, svc.Cancel(ctx, coordinator, hr.ID), service.ErrNotFoundOrNotOwned)

	require.NoError(t, svc.Accept(ctx, coordinator, hr.ID), "coordinators may take a request themselves")
	got, err = svc.Get(ctx, coordinator, hr.ID)
	require.NoError(t, err)
	require.Equal(t, coordinator.Email, got.AcceptedBy)
}

func TestConcurrentAcceptOneWinner(t *testing.T) {
	ctx := context.Background()
	svc := &service.RequestService{Store: newStore(t)}

	hr, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  []string
		rejected int
	)
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := domain.Caller{UserID: "u", Email: string(rune('a'+i)) + "@example.org", Role: domain.RoleVolunteer}
			err := svc.Accept(ctx, c, hr.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, c.Email)
			case errors.Is(err, service.ErrAlreadyAccepted):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	require.Equal(t, 19, rejected)

	got, err := svc.Get(ctx, coordinator, hr.ID)
	require.NoError(t, err)
	require.Equal(t, winners[0], got.AcceptedBy)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := &service.RequestService{Store: newStore(t)}

	hr, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Accept(ctx, vera, hr.ID))

	require.ErrorIs(t, svc.Delete(ctx, vera, hr.ID), service.ErrForbidden)
	require.ErrorIs(t, svc.Delete(ctx, anonymous, hr.ID), service.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, coordinator, hr.ID), "accepted requests can be deleted")
	require.ErrorIs(t, svc.Delete(ctx, coordinator, hr.ID), service.ErrNotFound)

	_, err = svc.Get(ctx, coordinator, hr.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestListViewsAndRedaction(t *testing.T) {
	ctx := context.Background()
	svc := &service.RequestService{Store: newStore(t)}

	open, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	mine, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Accept(ctx, vera, mine.ID))
	require.NoError(t, svc.Accept(ctx, piet, theirs.ID))

	t.Run("coordinator sees every phone", func(t *testing.T) {
		all, err := svc.List(ctx, coordinator, domain.ViewAll)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for _, r := range all {
			require.NotEmpty(t, r.Phone)
		}
	})

	t.Run("volunteer sees only own phone", func(t *testing.T) {
		all, err := svc.List(ctx, vera, domain.ViewAll)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for _, r := range all {
			if r.ID == mine.ID {
				require.Equal(t, "0612345678", r.Phone)
			} else {
				require.Empty(t, r.Phone)
			}
		}
	})

	t.Run("anonymous sees no phones", func(t *testing.T) {
		all, err := svc.List(ctx, anonymous, domain.ViewAll)
		require.NoError(t, err)
		for _, r := range all {
			require.Empty(t, r.Phone)
		}
	})

	t.Run("available", func(t *testing.T) {
		avail, err := svc.List(ctx, vera, domain.ViewAvailable)
		require.NoError(t, err)
		require.Len(t, avail, 1)
		require.Equal(t, open.ID, avail[0].ID)
		require.Empty(t, avail[0].Phone)
	})

	t.Run("mine", func(t *testing.T) {
		got, err := svc.List(ctx, vera, domain.ViewMine)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, mine.ID, got[0].ID)
		require.NotEmpty(t, got[0].Phone)

		_, err = svc.List(ctx, anonymous, domain.ViewMine)
		require.ErrorIs(t, err, service.ErrUnauthenticated)
	})

	t.Run("get redacts", func(t *testing.T) {
		got, err := svc.Get(ctx, piet, mine.ID)
		require.NoError(t, err)
		require.Empty(t, got.Phone)
	})
}

func TestVisibleTo(t *testing.T) {
	hr := domain.HelpRequest{ID: "1", Phone: "06", Accepted: true, AcceptedBy: "vera@example.org"}

	require.Equal(t, "06", service.VisibleTo(coordinator, hr).Phone)
	require.Equal(t, "06", service.VisibleTo(vera, hr).Phone)
	require.Empty(t, service.VisibleTo(piet, hr).Phone)
	require.Empty(t, service.VisibleTo(anonymous, hr).Phone)

	open := domain.HelpRequest{ID: "2", Phone: "06"}
	require.Empty(t, service.VisibleTo(domain.Caller{}, open).Phone, "anonymous never matches an empty acceptor")
	require.Equal(t, "06", hr.Phone, "the original is not modified")
}

func TestFilterFor(t *testing.T) {
	f, err := service.FilterFor(vera, domain.ViewMine)
	require.NoError(t, err)
	require.Equal(t, domain.RequestFilter{AcceptedBy: vera.Email}, f)

	f, err = service.FilterFor(anonymous, domain.ViewAvailable)
	require.NoError(t, err)
	require.True(t, f.OnlyOpen)

	_, err = service.FilterFor(vera, "bogus")
	require.ErrorIs(t, err, service.ErrValidation)
}
