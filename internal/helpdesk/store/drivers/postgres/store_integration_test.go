//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"
	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store/drivers/postgres"
	"github.com/burenvoorburen/helpdesk/pkg/idx"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:17",
		tcpostgres.WithDatabase("helpdesk"),
		tcpostgres.WithUsername("helpdesk"),
		tcpostgres.WithPassword("helpdesk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := postgres.NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestPostgresStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("help request accept race", func(t *testing.T) {
		repo := s.HelpRequests()
		hr := domain.HelpRequest{
			ID:            idx.New().String(),
			RequesterName: "Mevrouw Jansen",
			Kind:          domain.KindTransport,
			Date:          "2026-11-02",
			Address:       domain.Address{Street: "Dorpsstraat", City: "Utrecht"},
			Phone:         "0612345678",
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		require.NoError(t, repo.CreateHelpRequest(ctx, hr))

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := repo.AcceptHelpRequest(ctx, hr.ID, idx.New().String()+"@example.org", time.Now())
				if err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
				} else if !errors.Is(err, store.ErrNotFound) {
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()
		require.Equal(t, 1, wins)

		open, err := repo.ListHelpRequests(ctx, domain.RequestFilter{OnlyOpen: true})
		require.NoError(t, err)
		require.Empty(t, open)

		got, err := repo.GetHelpRequest(ctx, hr.ID)
		require.NoError(t, err)
		require.NoError(t, repo.ReleaseHelpRequestHeldBy(ctx, hr.ID, got.AcceptedBy, time.Now()))
		require.ErrorIs(t, repo.ReleaseHelpRequest(ctx, hr.ID, time.Now()), store.ErrNotFound)
	})

	t.Run("users", func(t *testing.T) {
		repo := s.Users()
		u := domain.User{
			ID:           idx.New().String(),
			Email:        "vera@example.org",
			PasswordHash: "hash",
			Role:         domain.RoleVolunteer,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		require.NoError(t, repo.CreateUser(ctx, u))
		require.ErrorIs(t, repo.CreateUser(ctx, u), store.ErrAlreadyExists)

		require.NoError(t, repo.ApproveVolunteer(ctx, u.ID))
		require.NoError(t, repo.UpdatePushToken(ctx, u.ID, "ExponentPushToken[x]"))

		tokens, err := repo.ListPushTokens(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"ExponentPushToken[x]"}, tokens)

		require.NoError(t, repo.PromoteToCoordinator(ctx, u.Email))
		n, err := repo.CountCoordinators(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("rollback", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Contacts().CreateContact(ctx, domain.Contact{
				ID: idx.New().String(), Email: "a@example.org", Message: "hoi", CreatedAt: now,
			}))
			return boom
		})
		require.ErrorIs(t, err, boom)

		contacts, err := s.Contacts().ListContacts(ctx)
		require.NoError(t, err)
		require.Empty(t, contacts)
	})
}
