package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/notify"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/service"
	"github.com/burenvoorburen/helpdesk/pkg/idx"
	"github.com/burenvoorburen/helpdesk/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	sends [][]string
	msgs  []notify.Message
	err   error
}

func (s *recordingSink) Send(ctx context.Context, tokens []string, msg notify.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sends = append(s.sends, tokens)
	s.msgs = append(s.msgs, msg)
	return s.err
}

func (s *recordingSink) Close() error { return nil }

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sends)
}

func TestPoll(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	ids := &service.IdentityService{Store: st}
	reqs := &service.RequestService{Store: st}
	sink := &recordingSink{}
	svc := service.NewNotificationService(st, sink, slogx.Discard(), time.Hour)

	u := seedUser(t, ids, "vera@example.org", "x", true)
	require.NoError(t, ids.RegisterPushToken(ctx, domain.Caller{UserID: u.ID, Email: u.Email, Role: domain.RoleVolunteer}, "ExponentPushToken[v]"))
	pending := seedUser(t, ids, "pending@example.org", "x", false)
	require.NoError(t, st.Users().UpdatePushToken(ctx, pending.ID, "ExponentPushToken[p]"))

	t.Run("empty store keeps cursor", func(t *testing.T) {
		cursor, err := svc.Poll(ctx, idx.Zero)
		require.NoError(t, err)
		require.True(t, cursor.IsZero())
	})

	first, err := reqs.Create(ctx, validRequest())
	require.NoError(t, err)

	cursor, err := svc.Poll(ctx, idx.Zero)
	require.NoError(t, err)
	require.Equal(t, first.ID, cursor.String())
	require.Zero(t, sink.count(), "first poll only primes the cursor")

	cursor, err = svc.Poll(ctx, cursor)
	require.NoError(t, err)
	require.Zero(t, sink.count(), "nothing new")

	second, err := reqs.Create(ctx, validRequest())
	require.NoError(t, err)

	cursor, err = svc.Poll(ctx, cursor)
	require.NoError(t, err)
	require.Equal(t, second.ID, cursor.String())
	require.Equal(t, 1, sink.count())
	require.Equal(t, []string{"ExponentPushToken[v]"}, sink.sends[0], "only approved volunteers")
	require.Equal(t, "Nieuwe hulpaanvraag!", sink.msgs[0].Title)

	cursor, err = svc.Poll(ctx, cursor)
	require.NoError(t, err)
	require.Equal(t, 1, sink.count(), "announced once")

	require.NoError(t, reqs.Delete(ctx, coordinator, second.ID))
	cursor, err = svc.Poll(ctx, cursor)
	require.NoError(t, err)
	require.Equal(t, second.ID, cursor.String(), "cursor does not move back")
	require.Equal(t, 1, sink.count(), "deleting the newest is not news")

	sink.err = errors.New("push down")
	third, err := reqs.Create(ctx, validRequest())
	require.NoError(t, err)
	cursor, err = svc.Poll(ctx, cursor)
	require.NoError(t, err, "send failures are swallowed")
	require.Equal(t, third.ID, cursor.String())
}

func TestNotificationServiceStartStop(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	ids := &service.IdentityService{Store: st}
	reqs := &service.RequestService{Store: st}
	sink := &recordingSink{}

	u := seedUser(t, ids, "vera@example.org", "x", true)
	require.NoError(t, ids.RegisterPushToken(ctx, domain.Caller{UserID: u.ID, Email: u.Email, Role: domain.RoleVolunteer}, "tok"))

	_, err := reqs.Create(ctx, validRequest())
	require.NoError(t, err)

	svc := service.NewNotificationService(st, sink, slogx.Discard(), 20*time.Millisecond)
	svc.Start()
	defer svc.Stop()

	time.Sleep(60 * time.Millisecond)
	require.Zero(t, sink.count(), "requests from before start are not announced")

	_, err = reqs.Create(ctx, validRequest())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return sink.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}
