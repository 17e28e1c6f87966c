package sqlite

import (
	"context"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
)

type volunteersRepo struct {
	db dbtx
}

func (r *volunteersRepo) CreateVolunteer(ctx context.Context, v domain.Volunteer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO volunteers (id, first_name, last_name, address, phone, email, motivation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.FirstName, v.LastName, v.Address, v.Phone, v.Email, v.Motivation, formatTime(v.CreatedAt),
	)
	return mapUnique(err)
}

func (r *volunteersRepo) ListVolunteers(ctx context.Context) ([]domain.Volunteer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, address, phone, email, motivation, created_at
		FROM volunteers ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Volunteer{}
	for rows.Next() {
		var (
			v         domain.Volunteer
			createdAt string
		)
		if err := rows.Scan(&v.ID, &v.FirstName, &v.LastName, &v.Address, &v.Phone, &v.Email, &v.Motivation, &createdAt); err != nil {
			return nil, err
		}
		if v.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *volunteersRepo) DeleteVolunteer(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM volunteers WHERE id = ?`, id))
}
