package postgres

import (
	"context"
	"fmt"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
)

type contactsRepo struct {
	db querier
}

func (r *contactsRepo) CreateContact(ctx context.Context, c domain.Contact) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO contacts (id, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Email, c.Subject, c.Message, c.CreatedAt,
	)
	return mapUnique(err)
}

func (r *contactsRepo) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, subject, message, created_at
		FROM contacts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	out := []domain.Contact{}
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.Email, &c.Subject, &c.Message, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contactsRepo) DeleteContact(ctx context.Context, id string) error {
	return expectOne(r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id))
}
