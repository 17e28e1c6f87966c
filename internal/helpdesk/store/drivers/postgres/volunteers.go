package postgres

import (
	"context"
	"fmt"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/domain"
)

type volunteersRepo struct {
	db querier
}

func (r *volunteersRepo) CreateVolunteer(ctx context.Context, v domain.Volunteer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO volunteers (id, first_name, last_name, address, phone, email, motivation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.FirstName, v.LastName, v.Address, v.Phone, v.Email, v.Motivation, v.CreatedAt,
	)
	return mapUnique(err)
}

func (r *volunteersRepo) ListVolunteers(ctx context.Context) ([]domain.Volunteer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, first_name, last_name, address, phone, email, motivation, created_at
		FROM volunteers ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query volunteers: %w", err)
	}
	defer rows.Close()

	out := []domain.Volunteer{}
	for rows.Next() {
		var v domain.Volunteer
		if err := rows.Scan(&v.ID, &v.FirstName, &v.LastName, &v.Address, &v.Phone, &v.Email, &v.Motivation, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *volunteersRepo) DeleteVolunteer(ctx context.Context, id string) error {
	return expectOne(r.db.Exec(ctx, `DELETE FROM volunteers WHERE id = $1`, id))
}
