package sqlite

import (
	"context"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
)

type contactsRepo struct {
	db dbtx
}

func (r *contactsRepo) CreateContact(ctx context.Context, c domain.Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (id, email, subject, message, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Email, c.Subject, c.Message, formatTime(c.CreatedAt),
	)
	return mapUnique(err)
}

func (r *contactsRepo) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, subject, message, created_at
		FROM contacts ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Contact{}
	for rows.Next() {
		var (
			c         domain.Contact
			createdAt string
		)
		if err := rows.Scan(&c.ID, &c.Email, &c.Subject, &c.Message, &createdAt); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contactsRepo) DeleteContact(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id))
}
