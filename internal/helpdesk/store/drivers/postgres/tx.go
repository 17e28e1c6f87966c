package postgres

import (
	"context"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/store"

	"github.com/jackc/pgx/v5"
)

type txStore struct {
	tx  pgx.Tx
	ctx context.Context
}

func (t *txStore) Commit() error   { return t.tx.Commit(t.ctx) }
func (t *txStore) Rollback() error { return t.tx.Rollback(t.ctx) }

// Close is a no-op; the outer Store owns the pool.
func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, pgx.ErrTxClosed
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return pgx.ErrTxClosed
}

func (t *txStore) HelpRequests() store.HelpRequests { return &helpRequestsRepo{db: t.tx} }
func (t *txStore) Users() store.Users               { return &usersRepo{db: t.tx} }
func (t *txStore) Contacts() store.Contacts         { return &contactsRepo{db: t.tx} }
func (t *txStore) Volunteers() store.Volunteers     { return &volunteersRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil }
